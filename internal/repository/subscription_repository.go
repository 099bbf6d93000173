package repository

import (
	"context"
	"errors"
	"lingua_backend/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

// FindByUserID 记录不存在时返回 nil, nil
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
