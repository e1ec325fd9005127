package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/internal/repository"
	appErr "github.com/shoplist/api/pkg/errors"
	"github.com/shoplist/api/pkg/logger"
)

// ItemService exposes a caller's shopping list. Every method is scoped to
// the identity passed in.
type ItemService interface {
	ListItems(ctx context.Context, caller auth.Identity) ([]models.Item, error)
	CreateItem(ctx context.Context, caller auth.Identity, input *CreateItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, caller auth.Identity, itemID int64) error
	SumPrice(ctx context.Context, caller auth.Identity) (decimal.Decimal, error)
}

const (
	MsgNameRequired = "Name is required."
	MsgInvalidPrice = "Price must be greater than 0 with at most 2 decimal places."
)

type CreateItemInput struct {
	Name  string
	Price decimal.Decimal
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

var _ ItemService = (*itemService)(nil)

func (s *itemService) ListItems(ctx context.Context, caller auth.Identity) ([]models.Item, error) {
	logger.L().Debug("list items", zap.Int64("user_id", caller.UserID))
	return s.itemRepo.ListActiveByUser(ctx, caller.UserID)
}

// CreateItem stores a new item owned by caller. The name is trimmed and the
// price must fit the price column exactly, as for imported rows.
func (s *itemService) CreateItem(ctx context.Context, caller auth.Identity, input *CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, appErr.New(appErr.CodeInvalid, MsgNameRequired)
	}
	if !models.ValidPrice(input.Price) {
		return nil, appErr.New(appErr.CodeInvalid, MsgInvalidPrice)
	}

	it := &models.Item{
		Name:   name,
		Price:  input.Price,
		UserID: caller.UserID,
	}
	if err := s.itemRepo.Create(ctx, it); err != nil {
		return nil, err
	}

	logger.L().Info("item created", zap.Int64("item_id", it.ID), zap.Int64("user_id", caller.UserID))
	return it, nil
}

// DeleteItem soft deletes itemID if caller owns it.
func (s *itemService) DeleteItem(ctx context.Context, caller auth.Identity, itemID int64) error {
	var it models.Item
	if err := s.itemRepo.GetByID(ctx, itemID, &it); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeNotFound, fmt.Sprintf("Item with ID %d not found.", itemID))
		}
		return err
	}
	if it.UserID != caller.UserID {
		logger.L().Warn("delete of foreign item refused", zap.Int64("item_id", itemID), zap.Int64("user_id", caller.UserID))
		return appErr.New(appErr.CodeUnauthorized, "You are not allowed to delete this item.")
	}

	if err := s.itemRepo.SoftDelete(ctx, itemID); err != nil {
		return err
	}

	logger.L().Info("item deleted", zap.Int64("item_id", itemID), zap.Int64("user_id", caller.UserID))
	return nil
}

func (s *itemService) SumPrice(ctx context.Context, caller auth.Identity) (decimal.Decimal, error) {
	return s.itemRepo.SumActiveByUser(ctx, caller.UserID)
}
