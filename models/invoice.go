package models

import (
	"time"

	"github.com/shopspring/decimal"

	"invoicing-backend/utils"
)

// Invoice is a billing document owned by one user and addressed to one of
// their clients. Total is derived from Items and persisted on every save.
type Invoice struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`

	UserId string `json:"-" gorm:"index;not null"`
	User   User   `json:"-" gorm:"foreignKey:UserId;references:Id"`

	ClientId uint   `json:"client_id"`
	Client   Client `json:"client" gorm:"foreignKey:ClientId;references:Id;constraint:OnDelete:CASCADE"`

	// Live items (latest state)
	Items []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Total decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
}

type InvoiceItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	InvoiceID uint            `json:"-" gorm:"index"` // fast join
	Item      string          `json:"item" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"default:0"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:numeric(12,2)"`
	TaxRate   decimal.Decimal `json:"tax_rate" gorm:"type:numeric(5,4);default:0"`
}

// Subtotal is quantity × rate, with the optional tax term applied,
// rounded to 2 decimal places.
func (it *InvoiceItem) Subtotal() decimal.Decimal {
	sub := it.Rate.Mul(decimal.NewFromInt(int64(it.Quantity)))
	if !it.TaxRate.IsZero() {
		sub = sub.Mul(decimal.NewFromInt(1).Add(it.TaxRate))
	}
	return utils.RoundMoney(sub)
}

// ComputeTotal sums the subtotals of items in decimal arithmetic.
// An empty set yields 0.00. Order of items does not matter.
func ComputeTotal(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	return utils.RoundMoney(total)
}
