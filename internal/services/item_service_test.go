package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	appErr "github.com/shoplist/api/pkg/errors"
)

var alice = auth.Identity{UserID: 1, Username: "alice"}

func TestCreateItemAssignsCaller(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("Create", ctx, mock.MatchedBy(func(it *models.Item) bool {
		return it.UserID == alice.UserID && it.Name == "Milk" && !it.Deleted
	})).Return(nil)

	it, err := NewItemService(repo).CreateItem(ctx, alice, &CreateItemInput{Name: "Milk", Price: decimal.RequireFromString("1.99")})
	require.NoError(t, err)
	require.Equal(t, int64(101), it.ID)
	require.Equal(t, alice.UserID, it.UserID)
	repo.AssertExpectations(t)
}

func TestCreateItemTrimsName(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("Create", ctx, mock.MatchedBy(func(it *models.Item) bool { return it.Name == "Milk" })).Return(nil)

	it, err := NewItemService(repo).CreateItem(ctx, alice, &CreateItemInput{Name: "  Milk\t", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.Equal(t, "Milk", it.Name)
	repo.AssertExpectations(t)
}

func TestCreateItemRejectsInput(t *testing.T) {
	cases := map[string]struct {
		input CreateItemInput
		msg   string
	}{
		"blank name":     {CreateItemInput{Name: "   ", Price: decimal.NewFromInt(1)}, MsgNameRequired},
		"zero price":     {CreateItemInput{Name: "Milk", Price: decimal.Zero}, MsgInvalidPrice},
		"sub-cent price": {CreateItemInput{Name: "Milk", Price: decimal.RequireFromString("0.001")}, MsgInvalidPrice},
		"three decimals": {CreateItemInput{Name: "Milk", Price: decimal.RequireFromString("1.999")}, MsgInvalidPrice},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(mockItemRepository)
			_, err := NewItemService(repo).CreateItem(context.Background(), alice, &tc.input)
			var ae *appErr.AppError
			require.ErrorAs(t, err, &ae)
			require.Equal(t, appErr.CodeInvalid, ae.Code)
			require.Equal(t, tc.msg, ae.Message)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateItemStoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("Create", ctx, mock.Anything).Return(appErr.Wrap(fmt.Errorf("disk full"), appErr.CodeInternal, "create entity failed"))

	_, err := NewItemService(repo).CreateItem(ctx, alice, &CreateItemInput{Name: "Milk", Price: decimal.NewFromInt(1)})
	require.True(t, appErr.IsCode(err, appErr.CodeInternal))
}

func TestDeleteItemOwned(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("GetByID", ctx, int64(5), mock.Anything).Return(nil, &models.Item{ID: 5, UserID: alice.UserID})
	repo.On("SoftDelete", ctx, int64(5)).Return(nil)

	require.NoError(t, NewItemService(repo).DeleteItem(ctx, alice, 5))
	repo.AssertExpectations(t)
}

func TestDeleteItemForeignOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("GetByID", ctx, int64(5), mock.Anything).Return(nil, &models.Item{ID: 5, UserID: 2})

	err := NewItemService(repo).DeleteItem(ctx, alice, 5)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestDeleteItemMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("GetByID", ctx, int64(404), mock.Anything).Return(appErr.New(appErr.CodeNotFound, "entity not found"), nil)

	err := NewItemService(repo).DeleteItem(ctx, alice, 404)
	var ae *appErr.AppError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, appErr.CodeNotFound, ae.Code)
	require.Equal(t, "Item with ID 404 not found.", ae.Message)
}

func TestListAndSumUseCallerID(t *testing.T) {
	ctx := context.Background()
	repo := new(mockItemRepository)
	repo.On("ListActiveByUser", ctx, alice.UserID).Return([]models.Item{{ID: 1, UserID: alice.UserID}}, nil)
	repo.On("SumActiveByUser", ctx, alice.UserID).Return(decimal.Zero, nil)

	svc := NewItemService(repo)
	items, err := svc.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)

	sum, err := svc.SumPrice(ctx, alice)
	require.NoError(t, err)
	require.True(t, sum.IsZero())
	repo.AssertExpectations(t)
}
