package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/shoplist/api/internal/models"
	appErr "github.com/shoplist/api/pkg/errors"
	"gorm.io/gorm"
)

const importBatchSize = 500

type ItemRepository interface {
	BaseRepository[models.Item]
	ListActiveByUser(ctx context.Context, userID int64) ([]models.Item, error)
	SumActiveByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	SoftDelete(ctx context.Context, itemID int64) error
	CreateBatch(ctx context.Context, items []models.Item) error
}

type itemRepository struct {
	BaseRepository[models.Item]
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{BaseRepository: NewBaseRepository[models.Item](db), db: db}
}

func (r *itemRepository) active(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Item{}).Where("user_id = ? AND deleted = ?", userID, false)
}

// ListActiveByUser returns the user's non-deleted items in insertion order.
func (r *itemRepository) ListActiveByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	out := []models.Item{}
	if err := r.active(ctx, userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list items by user failed")
	}
	return out, nil
}

// SumActiveByUser totals the user's non-deleted prices. SQLite sums in
// floating point, so the result is rounded back to the column scale.
func (r *itemRepository) SumActiveByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.active(ctx, userID).Select("COALESCE(SUM(price), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, appErr.Wrap(err, appErr.CodeInternal, "sum item prices failed")
	}
	return total.Round(models.PriceScale), nil
}

func (r *itemRepository) SoftDelete(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).Update("deleted", true)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "soft delete item failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "item not found")
	}
	return nil
}

// CreateBatch inserts all items in a single transaction. Either every row is
// stored or none is.
func (r *itemRepository) CreateBatch(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, importBatchSize).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "bulk insert items failed")
	}
	return nil
}
