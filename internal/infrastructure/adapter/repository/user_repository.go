package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements UserRepository interface using GORM. The user
// table is owned by the platform's account service; this repository only
// reads it.
type UserRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("User not found", map[string]any{
				"user_id": id,
			})
			return nil, errs.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", map[string]any{
			"user_id": id,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return &entity.User{
		ID:        userModel.ID,
		Email:     userModel.Email,
		FullName:  userModel.FullName,
		CreatedAt: userModel.CreatedAt,
	}, nil
}
