package repository

import (
	"context"
	"errors"
	"lingua_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeProgressRepository struct {
	DB *gorm.DB
}

func NewChallengeProgressRepository(db *gorm.DB) *ChallengeProgressRepository {
	return &ChallengeProgressRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *ChallengeProgressRepository) WithTx(tx *gorm.DB) *ChallengeProgressRepository {
	return &ChallengeProgressRepository{DB: tx}
}

// Find 记录不存在时返回 nil, nil
func (r *ChallengeProgressRepository) Find(ctx context.Context, userID, challengeID uint) (*model.ChallengeProgress, error) {
	var progress model.ChallengeProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Create 依赖 (user_id, challenge_id) 唯一索引，重复插入返回 gorm.ErrDuplicatedKey
func (r *ChallengeProgressRepository) Create(ctx context.Context, progress *model.ChallengeProgress) error {
	return r.DB.WithContext(ctx).Create(progress).Error
}

func (r *ChallengeProgressRepository) MarkCompleted(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.ChallengeProgress{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

// CompletedChallengeIDs 返回用户在给定题目中已完成的集合
func (r *ChallengeProgressRepository) CompletedChallengeIDs(ctx context.Context, userID uint, challengeIDs []uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)
	if len(challengeIDs) == 0 {
		return completed, nil
	}

	var rows []model.ChallengeProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND challenge_id IN ? AND completed = ?", userID, challengeIDs, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		completed[row.ChallengeID] = true
	}
	return completed, nil
}
