package controllers

import (
	"errors"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/policy"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClientCreateDTO struct {
	FirstName   string `json:"first_name" validate:"required,min=1"`
	LastName    string `json:"last_name" validate:"required,min=1"`
	Email       string `json:"email" validate:"required,email"`
	Company     string `json:"company" validate:"omitempty"`
	Address1    string `json:"address1" validate:"omitempty"`
	Address2    string `json:"address2" validate:"omitempty"`
	Country     string `json:"country" validate:"omitempty"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
}

type ClientUpdateDTO struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Company     *string `json:"company"`
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
}

// POST /api/client
func CreateClient(c *fiber.Ctx) error {
	var in ClientCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	client := models.Client{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Company:     in.Company,
		Address1:    in.Address1,
		Address2:    in.Address2,
		Country:     in.Country,
		PhoneNumber: in.PhoneNumber,
		CreatedById: middlewares.UserID(c),
	}

	db := database.FromCtx(c)
	if err := db.Create(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// GET /api/clients
func GetClients(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var clients []models.Client
	err := database.FromCtx(c).
		Scopes(policy.OwnedClients(middlewares.UserID(c))).
		Order("id").
		Limit(limit).Offset(offset).
		Find(&clients).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{
		"clients": clients,
		"message": "success",
	})
}

// GET /api/client/:id
func GetClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var client models.Client
	err = database.FromCtx(c).
		Scopes(policy.OwnedClients(middlewares.UserID(c))).
		First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(client)
}

// PUT /api/client/:id
func UpdateClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var in ClientUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db := database.FromCtx(c)
	userID := middlewares.UserID(c)

	// Ensure exists within the caller's scope
	var existing models.Client
	if err := db.Scopes(policy.OwnedClients(userID)).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	// Owner stays whatever it was at creation; created_by_id is never
	// part of the updates map.
	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update client")
		}
	}

	var out models.Client
	if err := db.First(&out, id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload client")
	}
	return c.JSON(out)
}

// DELETE /api/client/:id
// Cascades: the client's invoices go with it, and their items with them.
func DeleteClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	db := database.FromCtx(c)

	var client models.Client
	err = db.Scopes(policy.OwnedClients(middlewares.UserID(c))).First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	if err := db.Delete(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not delete client")
	}
	return c.JSON(fiber.Map{"message": "success"})
}
