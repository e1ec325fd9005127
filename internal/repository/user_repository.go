package repository

import (
	"context"

	"github.com/shoplist/api/internal/models"
	appErr "github.com/shoplist/api/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByUsername(ctx context.Context, username string, dest *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

// GetByUsername requires exactly one match; zero or several rows both
// report not_found.
func (r *userRepository) GetByUsername(ctx context.Context, username string, dest *models.User) error {
	var found []models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Limit(2).Find(&found).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "get user by username failed")
	}
	if len(found) != 1 {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	*dest = found[0]
	return nil
}

