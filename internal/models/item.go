package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is a shopping-list entry owned by a user. Items are soft deleted via
// the Deleted flag and never removed from the table.
type Item struct {
	ID      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string          `gorm:"not null" json:"name" validate:"required"`
	Price   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	Deleted bool            `gorm:"not null;default:false" json:"deleted"`
	UserID  int64           `gorm:"index:idx_items_user_id" json:"userId"`
}

// PriceScale is the number of fractional digits the price column keeps.
const PriceScale = 2

// ValidPrice reports whether p is positive and representable in the price
// column without rounding.
func ValidPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Equal(p.Round(PriceScale))
}
