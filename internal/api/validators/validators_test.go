package validators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"gt=0"`
}

func TestDecimalGreaterThanZero(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(priced{Name: "Milk", Price: decimal.RequireFromString("0.01")}))
	require.Error(t, v.Struct(priced{Name: "Milk", Price: decimal.Zero}))
	require.Error(t, v.Struct(priced{Name: "Milk", Price: decimal.NewFromInt(-3)}))
	require.Error(t, v.Struct(priced{Price: decimal.NewFromInt(1)}))
}
