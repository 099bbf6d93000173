package service

import (
	"context"
	"errors"
	"fmt"
	"lingua_backend/internal/config"
	"lingua_backend/internal/model"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/util"
	"lingua_backend/pkg/logger"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GameSource 提供当前生效的经济参数
type GameSource interface {
	GameConfig() config.GameConfig
}

type SelectCourseResult struct {
	ActiveCourseID uint     `json:"activeCourseId"`
	StaleViews     []string `json:"staleViews"`
}

type CreateCourseRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageSrc string `json:"imageSrc"`
}

type CreateUnitRequest struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type CreateLessonRequest struct {
	UnitID uint   `json:"unitId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Order  int    `json:"order"`
}

type ChallengeOptionRequest struct {
	Text     string `json:"text" binding:"required"`
	Correct  bool   `json:"correct"`
	ImageSrc string `json:"imageSrc"`
	AudioSrc string `json:"audioSrc"`
}

type CreateChallengeRequest struct {
	LessonID uint                     `json:"lessonId" binding:"required"`
	Type     model.ChallengeType      `json:"type" binding:"required"`
	Question string                   `json:"question" binding:"required"`
	Order    int                      `json:"order"`
	Options  []ChallengeOptionRequest `json:"options" binding:"required"`
}

type CourseService struct {
	DB               *gorm.DB
	CourseRepo       *repository.CourseRepository
	ChallengeRepo    *repository.ChallengeRepository
	UserRepo         *repository.UserRepository
	UserProgressRepo *repository.UserProgressRepository
	Storage          *StorageService
	Game             GameSource
}

func NewCourseService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	challengeRepo *repository.ChallengeRepository,
	userRepo *repository.UserRepository,
	userProgressRepo *repository.UserProgressRepository,
	storage *StorageService,
	game GameSource,
) *CourseService {
	return &CourseService{
		DB:               db,
		CourseRepo:       courseRepo,
		ChallengeRepo:    challengeRepo,
		UserRepo:         userRepo,
		UserProgressRepo: userProgressRepo,
		Storage:          storage,
		Game:             game,
	}
}

// SelectCourse 设置当前课程。没有任何课时的课程不能被选择
func (s *CourseService) SelectCourse(ctx context.Context, userID, courseID uint) (*SelectCourseResult, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	lessons, err := s.CourseRepo.CountLessons(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	if lessons == 0 {
		return nil, util.ErrCourseEmpty
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	progress := &model.UserProgress{
		UserID:         userID,
		UserName:       user.Name,
		UserImageSrc:   user.ImageSrc,
		ActiveCourseID: &courseID,
		Hearts:         s.Game.GameConfig().MaxHearts,
	}
	if err := s.UserProgressRepo.UpsertActiveCourse(ctx, progress); err != nil {
		return nil, fmt.Errorf("select course: %w", err)
	}

	logger.Log.Info("Active course selected", zap.Uint("userId", userID), zap.Uint("courseId", courseID))
	return &SelectCourseResult{
		ActiveCourseID: courseID,
		StaleViews:     []string{util.ViewCourses, util.ViewLearn},
	}, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{Title: strings.TrimSpace(req.Title), ImageSrc: req.ImageSrc}
	if course.Title == "" {
		return nil, fmt.Errorf("%w: course title is required", util.ErrInvalidContent)
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UploadCourseImage 上传课程封面并更新 image_src
func (s *CourseService) UploadCourseImage(ctx context.Context, courseID uint, header *multipart.FileHeader) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	url, err := s.Storage.UploadImage(ctx, "courses", header)
	if err != nil {
		return nil, err
	}
	if err := s.CourseRepo.UpdateImage(ctx, courseID, url); err != nil {
		return nil, err
	}
	course.ImageSrc = url
	return course, nil
}

func (s *CourseService) CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.Unit, error) {
	if _, err := s.CourseRepo.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	unit := &model.Unit{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.CourseRepo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *CourseService) CreateLesson(ctx context.Context, req CreateLessonRequest) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindUnitByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unit %d does not exist", util.ErrInvalidContent, req.UnitID)
		}
		return nil, err
	}
	lesson := &model.Lesson{UnitID: req.UnitID, Title: req.Title, Order: req.Order}
	if err := s.CourseRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if _, err := s.ChallengeRepo.FindLessonByID(ctx, req.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	challenge := &model.Challenge{
		LessonID: req.LessonID,
		Type:     req.Type,
		Question: req.Question,
		Order:    req.Order,
	}
	for _, opt := range req.Options {
		challenge.Options = append(challenge.Options, model.ChallengeOption{
			Text:     opt.Text,
			Correct:  opt.Correct,
			ImageSrc: opt.ImageSrc,
			AudioSrc: opt.AudioSrc,
		})
	}
	if err := ValidateChallenge(challenge); err != nil {
		return nil, err
	}

	if err := s.ChallengeRepo.CreateWithOptions(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// ImportCourse 在一个事务中写入完整的课程树，任一题目不合法时整体回滚
func (s *CourseService) ImportCourse(ctx context.Context, course *model.Course) error {
	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: course title is required", util.ErrInvalidContent)
	}
	for ui := range course.Units {
		unit := &course.Units[ui]
		for li := range unit.Lessons {
			lesson := &unit.Lessons[li]
			for ci := range lesson.Challenges {
				if err := ValidateChallenge(&lesson.Challenges[ci]); err != nil {
					return fmt.Errorf("unit %q lesson %q: %w", unit.Title, lesson.Title, err)
				}
			}
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
	if err != nil {
		return fmt.Errorf("import course %q: %w", course.Title, err)
	}

	logger.Log.Info("Course imported", zap.Uint("courseId", course.ID), zap.String("title", course.Title), zap.Int("units", len(course.Units)))
	return nil
}

// ValidateChallenge 题型合法、题干非空、至少两个选项且恰好一个正确答案
func ValidateChallenge(ch *model.Challenge) error {
	if !ch.Type.Valid() {
		return fmt.Errorf("%w: unknown challenge type %q", util.ErrInvalidContent, ch.Type)
	}
	if strings.TrimSpace(ch.Question) == "" {
		return fmt.Errorf("%w: challenge question is required", util.ErrInvalidContent)
	}
	if len(ch.Options) < 2 {
		return fmt.Errorf("%w: challenge %q needs at least two options", util.ErrInvalidContent, ch.Question)
	}
	correct := 0
	for _, opt := range ch.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("%w: challenge %q has an empty option", util.ErrInvalidContent, ch.Question)
		}
		if opt.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: challenge %q must have exactly one correct option, got %d", util.ErrInvalidContent, ch.Question, correct)
	}
	return nil
}
