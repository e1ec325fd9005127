package repository

import (
	"context"
	"errors"

	appErr "github.com/shoplist/api/pkg/errors"
	"gorm.io/gorm"
)

// BaseRepository defines the operations every table supports. There is no
// generic update or delete: rows are only ever inserted, and items are
// retired through ItemRepository.SoftDelete.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id int64, dest *T) error
}

type baseRepository[T any] struct {
	db *gorm.DB
}

func NewBaseRepository[T any](db *gorm.DB) BaseRepository[T] {
	return &baseRepository[T]{db: db}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create entity failed")
	}
	return nil
}

// GetByID looks the row up by primary key, ignoring any soft-delete flag.
func (r *baseRepository[T]) GetByID(ctx context.Context, id int64, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "entity not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get entity failed")
	}
	return nil
}
