package repository

import (
	"context"
	"errors"
	"lingua_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserProgressRepository 所有红心/积分变更都是单条带条件的 UPDATE，
// 条件写在 WHERE 中，返回值表示是否有行被更新
type UserProgressRepository struct {
	DB *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) *UserProgressRepository {
	return &UserProgressRepository{DB: db}
}

func (r *UserProgressRepository) WithTx(tx *gorm.DB) *UserProgressRepository {
	return &UserProgressRepository{DB: tx}
}

// FindByUserID 记录不存在时返回 nil, nil
func (r *UserProgressRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.WithContext(ctx).Preload("ActiveCourse").Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertActiveCourse 设置当前课程，不存在进度记录时以满红心创建
func (r *UserProgressRepository) UpsertActiveCourse(ctx context.Context, progress *model.UserProgress) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"active_course_id", "user_name", "user_image_src", "updated_at"}),
	}).Create(progress).Error
}

// AddPoints 首次完成题目加分；requireHeart 为 true 时仅在 hearts > 0 时生效
func (r *UserProgressRepository) AddPoints(ctx context.Context, userID uint, points int, requireHeart bool) (bool, error) {
	query := r.DB.WithContext(ctx).Model(&model.UserProgress{}).Where("user_id = ?", userID)
	if requireHeart {
		query = query.Where("hearts > 0")
	}
	result := query.Update("points", gorm.Expr("points + ?", points))
	return result.RowsAffected > 0, result.Error
}

// AddPointsAndHeart 练习模式：加分并恢复一颗红心，达到 maxHearts 后不再增加，也不会下调已有红心
func (r *UserProgressRepository) AddPointsAndHeart(ctx context.Context, userID uint, points, maxHearts int) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"hearts": gorm.Expr("CASE WHEN hearts >= ? THEN hearts ELSE hearts + 1 END", maxHearts),
			"points": gorm.Expr("points + ?", points),
		})
	return result.RowsAffected > 0, result.Error
}

// DecrementHeart 扣除一颗红心，红心为 0 时不更新
func (r *UserProgressRepository) DecrementHeart(ctx context.Context, userID uint) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND hearts > 0", userID).
		Update("hearts", gorm.Expr("hearts - 1"))
	return result.RowsAffected > 0, result.Error
}

// Refill 用积分补满红心，红心已满或积分不足时不更新
func (r *UserProgressRepository) Refill(ctx context.Context, userID uint, maxHearts, price int) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND hearts < ? AND points >= ?", userID, maxHearts, price).
		Updates(map[string]interface{}{
			"hearts": maxHearts,
			"points": gorm.Expr("points - ?", price),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *UserProgressRepository) TopByPoints(ctx context.Context, limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.WithContext(ctx).Order("points DESC, user_id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}
