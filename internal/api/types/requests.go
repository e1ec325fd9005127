package types

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateItemRequest is the body of POST /api/items. Any userId sent by the
// client is dropped during decoding.
type CreateItemRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
}
