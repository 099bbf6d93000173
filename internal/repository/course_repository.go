package repository

import (
	"context"
	"lingua_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindAll(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindWithUnits 加载课程下的单元、课时和题目，均按 sort_order 排序
func (r *CourseRepository) FindWithUnits(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Units.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Units.Lessons.Challenges", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// CountLessons 统计课程下的课时数量
func (r *CourseRepository) CountLessons(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).
		Joins("JOIN units ON units.id = lessons.unit_id AND units.deleted_at IS NULL").
		Where("units.course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) UpdateImage(ctx context.Context, courseID uint, imageSrc string) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("image_src", imageSrc).Error
}

func (r *CourseRepository) FindUnitByID(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	if err := r.DB.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *CourseRepository) CreateUnit(ctx context.Context, unit *model.Unit) error {
	return r.DB.WithContext(ctx).Create(unit).Error
}

func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}
