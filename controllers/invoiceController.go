package controllers

import (
	"errors"
	"fmt"
	"strings"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/policy"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceItemInput is one row of the item batch. A row with ID == 0 is
// created, a row with an ID is updated, and a row with Remove set is
// deleted.
type InvoiceItemInput struct {
	ID       uint            `json:"id"`
	Item     string          `json:"item" validate:"required,min=1"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Rate     decimal.Decimal `json:"rate"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Remove   bool            `json:"remove"`
}

type InvoiceCreateDTO struct {
	Title       string             `json:"title" validate:"required,min=1"`
	Description string             `json:"description"`
	ClientID    uint               `json:"client_id" validate:"required"`
	Items       []InvoiceItemInput `json:"items"`
}

type InvoiceUpdateDTO struct {
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	ClientID    *uint              `json:"client_id"`
	Items       []InvoiceItemInput `json:"items"`
}

// validateItems checks every row before anything is written, so a bad
// batch rejects the whole operation.
func validateItems(items []InvoiceItemInput) error {
	for i := range items {
		if items[i].Remove {
			continue
		}
		if err := middlewares.ValidateStruct(&items[i]); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("invalid item at index %d", i))
		}
		if items[i].Rate.IsNegative() {
			return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("negative rate at index %d", i))
		}
		if items[i].TaxRate.IsNegative() {
			return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("negative tax rate at index %d", i))
		}
	}
	return nil
}

// applyItemBatch inserts, updates and deletes line items of one invoice,
// then recomputes and persists the total from the surviving rows. Runs on
// the request transaction, so the whole edit commits atomically.
func applyItemBatch(tx *gorm.DB, invoice *models.Invoice, rows []InvoiceItemInput) error {
	for i := range rows {
		row := &rows[i]
		switch {
		case row.Remove:
			if row.ID == 0 {
				continue
			}
			if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}, row.ID).Error; err != nil {
				return fmt.Errorf("delete item %d: %w", row.ID, err)
			}
		case row.ID != 0:
			res := tx.Model(&models.InvoiceItem{}).
				Where("id = ? AND invoice_id = ?", row.ID, invoice.ID).
				Updates(map[string]any{
					"item":     strings.TrimSpace(row.Item),
					"quantity": row.Quantity,
					"rate":     utils.RoundMoney(row.Rate),
					"tax_rate": row.TaxRate,
				})
			if res.Error != nil {
				return fmt.Errorf("update item %d: %w", row.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		default:
			item := models.InvoiceItem{
				InvoiceID: invoice.ID,
				Item:      strings.TrimSpace(row.Item),
				Quantity:  row.Quantity,
				Rate:      utils.RoundMoney(row.Rate),
				TaxRate:   row.TaxRate,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create item: %w", err)
			}
		}
	}

	// Recompute the total from the full surviving item set and persist it
	// in the same transaction. Total freshness is bound to the save, not
	// to which fields changed.
	var items []models.InvoiceItem
	if err := tx.Where("invoice_id = ?", invoice.ID).Find(&items).Error; err != nil {
		return fmt.Errorf("reload items: %w", err)
	}
	invoice.Items = items
	invoice.Total = models.ComputeTotal(items)
	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("total", invoice.Total).Error
}

// POST /api/invoice
func CreateInvoice(c *fiber.Ctx) error {
	var in InvoiceCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := validateItems(in.Items); err != nil {
		return err
	}

	tx := database.FromCtx(c)
	userID := middlewares.UserID(c)

	// The referenced client must be the caller's own.
	var client models.Client
	if err := tx.Scopes(policy.OwnedClients(userID)).First(&client, in.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	invoice := models.Invoice{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		UserId:      userID,
		ClientId:    client.Id,
		Total:       decimal.Zero,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create invoice")
	}
	if err := applyItemBatch(tx, &invoice, in.Items); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create invoice items")
	}

	invoice.Client = client
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// PUT /api/invoice/:id
func UpdateInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var in InvoiceUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)
	if err := validateItems(in.Items); err != nil {
		return err
	}

	tx := database.FromCtx(c)
	userID := middlewares.UserID(c)

	var invoice models.Invoice
	if err := tx.Scopes(policy.OwnedInvoices(userID)).First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	// Re-pointing the invoice at another client is only allowed within
	// the caller's own clients.
	if in.ClientID != nil {
		var client models.Client
		if err := tx.Scopes(policy.OwnedClients(userID)).First(&client, *in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "client not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "db error")
		}
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := tx.Model(&invoice).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update invoice")
		}
	}
	if err := applyItemBatch(tx, &invoice, in.Items); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice item not found")
		}
		return fiber.NewError(fiber.StatusBadRequest, "could not update invoice items")
	}

	var out models.Invoice
	if err := tx.Preload("Items").Preload("Client").First(&out, invoice.ID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload invoice")
	}
	return c.JSON(out)
}

// GET /api/invoices
func GetInvoices(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var invoices []models.Invoice
	err := database.FromCtx(c).
		Scopes(policy.OwnedInvoices(middlewares.UserID(c))).
		Preload("Client").
		Order("id").
		Limit(limit).Offset(offset).
		Find(&invoices).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

// loadInvoiceDetail fetches one scoped invoice with client, owner and
// items. The total is whatever was persisted with the last item batch,
// so it is consistent with the items read here.
func loadInvoiceDetail(c *fiber.Ctx, id int) (*models.Invoice, error) {
	var invoice models.Invoice
	err := database.FromCtx(c).
		Scopes(policy.OwnedInvoices(middlewares.UserID(c))).
		Preload("Items").
		Preload("Client").
		Preload("User").
		First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return &invoice, nil
}

// GET /api/invoice/:id
func GetInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	invoice, err := loadInvoiceDetail(c, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice": invoice,
		"client":  invoice.Client,
		"owner":   invoice.User,
		"items":   invoice.Items,
	})
}

// DELETE /api/invoice/:id
func DeleteInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tx := database.FromCtx(c)

	var invoice models.Invoice
	err = tx.Scopes(policy.OwnedInvoices(middlewares.UserID(c))).First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not delete invoice")
	}
	return c.JSON(fiber.Map{"message": "success"})
}
