package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"invoicing-backend/models"
)

// GET /api/invoice/:id/pdf
// Renders the scoped invoice detail projection as a PDF document.
func GenerateInvoicePDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	invoice, err := loadInvoiceDetail(c, id)
	if err != nil {
		return err
	}

	pdfBytes, err := renderInvoicePDF(invoice)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not render pdf")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice_%d.pdf"`, invoice.ID))
	return c.Send(pdfBytes)
}

func renderInvoicePDF(invoice *models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "INVOICE", props.Text{
		Size:  18,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(8,
		text.NewCol(6, invoice.Title, props.Text{Size: 12, Style: fontstyle.Bold}),
		text.NewCol(6, invoice.CreatedAt.Format("2006-01-02"), props.Text{Size: 10, Align: align.Right}),
	)
	if invoice.Description != "" {
		m.AddRow(6, text.NewCol(12, invoice.Description, props.Text{Size: 9}))
	}

	// Billed-to block
	client := invoice.Client
	m.AddRow(6, text.NewCol(12, "Billed to:", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}))
	m.AddRow(5, text.NewCol(12, client.FirstName+" "+client.LastName, props.Text{Size: 9}))
	if client.Company != "" {
		m.AddRow(5, text.NewCol(12, client.Company, props.Text{Size: 9}))
	}
	if client.Address1 != "" {
		m.AddRow(5, text.NewCol(12, client.Address1, props.Text{Size: 9}))
	}
	if client.Address2 != "" {
		m.AddRow(5, text.NewCol(12, client.Address2, props.Text{Size: 9}))
	}
	if client.Country != "" {
		m.AddRow(5, text.NewCol(12, client.Country, props.Text{Size: 9}))
	}

	// Items table
	m.AddRow(7,
		text.NewCol(6, "Item", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3, Align: align.Right}),
	)
	for i := range invoice.Items {
		it := &invoice.Items[i]
		m.AddRow(5,
			text.NewCol(6, it.Item, props.Text{Size: 9}),
			text.NewCol(2, strconv.Itoa(it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, it.Rate.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, it.Subtotal().StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		text.NewCol(10, "Total", props.Text{Size: 11, Style: fontstyle.Bold, Top: 2, Align: align.Right}),
		text.NewCol(2, invoice.Total.StringFixed(2), props.Text{Size: 11, Style: fontstyle.Bold, Top: 2, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
