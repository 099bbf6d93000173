package service

import (
	"context"
	"errors"
	"fmt"
	"lingua_backend/internal/model"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/util"

	"gorm.io/gorm"
)

const LeaderboardSize = 10

// QuestMilestones 积分任务目标
var QuestMilestones = []int{20, 50, 100, 500, 1000}

type LessonSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
}

type UnitView struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Lessons     []LessonSummary `json:"lessons"`
}

type LearnView struct {
	ActiveCourse           *model.Course `json:"activeCourse"`
	Hearts                 int           `json:"hearts"`
	Points                 int           `json:"points"`
	HasActiveSubscription  bool          `json:"hasActiveSubscription"`
	Units                  []UnitView    `json:"units"`
	ActiveLessonID         *uint         `json:"activeLessonId"`
	ActiveLessonPercentage int           `json:"activeLessonPercentage"`
}

type ChallengeView struct {
	model.Challenge
	Completed bool `json:"completed"`
}

type LessonView struct {
	ID                    uint            `json:"id"`
	Title                 string          `json:"title"`
	UnitID                uint            `json:"unitId"`
	Challenges            []ChallengeView `json:"challenges"`
	Percentage            int             `json:"percentage"`
	Hearts                int             `json:"hearts"`
	Points                int             `json:"points"`
	HasActiveSubscription bool            `json:"hasActiveSubscription"`
}

type ShopView struct {
	Hearts                int  `json:"hearts"`
	Points                int  `json:"points"`
	MaxHearts             int  `json:"maxHearts"`
	RefillPrice           int  `json:"refillPrice"`
	CanRefill             bool `json:"canRefill"`
	HasActiveSubscription bool `json:"hasActiveSubscription"`
}

type Quest struct {
	Title     string `json:"title"`
	Value     int    `json:"value"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

type QuestsView struct {
	Points int     `json:"points"`
	Quests []Quest `json:"quests"`
}

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       uint   `json:"userId"`
	UserName     string `json:"userName"`
	UserImageSrc string `json:"userImageSrc"`
	Points       int    `json:"points"`
}

type CoursesView struct {
	Courses        []model.Course `json:"courses"`
	ActiveCourseID *uint          `json:"activeCourseId"`
}

// ViewService 页面只读数据的组装
type ViewService struct {
	CourseRepo            *repository.CourseRepository
	ChallengeRepo         *repository.ChallengeRepository
	ChallengeProgressRepo *repository.ChallengeProgressRepository
	UserProgressRepo      *repository.UserProgressRepository
	Subscriptions         SubscriptionChecker
	Game                  GameSource
}

func NewViewService(
	courseRepo *repository.CourseRepository,
	challengeRepo *repository.ChallengeRepository,
	challengeProgressRepo *repository.ChallengeProgressRepository,
	userProgressRepo *repository.UserProgressRepository,
	subscriptions SubscriptionChecker,
	game GameSource,
) *ViewService {
	return &ViewService{
		CourseRepo:            courseRepo,
		ChallengeRepo:         challengeRepo,
		ChallengeProgressRepo: challengeProgressRepo,
		UserProgressRepo:      userProgressRepo,
		Subscriptions:         subscriptions,
		Game:                  game,
	}
}

func (s *ViewService) progress(ctx context.Context, userID uint) (*model.UserProgress, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}
	p, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	return p, nil
}

// activeCourseTree 返回当前课程的完整结构；没有进度或未选择课程时返回 ErrNoActiveCourse
func (s *ViewService) activeCourseTree(ctx context.Context, userID uint) (*model.UserProgress, *model.Course, error) {
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil || p.ActiveCourseID == nil {
		return nil, nil, util.ErrNoActiveCourse
	}
	course, err := s.CourseRepo.FindWithUnits(ctx, *p.ActiveCourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrNoActiveCourse
		}
		return nil, nil, fmt.Errorf("load course: %w", err)
	}
	return p, course, nil
}

func challengeIDs(course *model.Course) []uint {
	var ids []uint
	for _, unit := range course.Units {
		for _, lesson := range unit.Lessons {
			for _, ch := range lesson.Challenges {
				ids = append(ids, ch.ID)
			}
		}
	}
	return ids
}

// lessonCompleted 课时有题目且全部完成才算完成
func lessonCompleted(lesson *model.Lesson, completed map[uint]bool) bool {
	if len(lesson.Challenges) == 0 {
		return false
	}
	for _, ch := range lesson.Challenges {
		if !completed[ch.ID] {
			return false
		}
	}
	return true
}

func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

func (s *ViewService) GetLearnView(ctx context.Context, userID uint) (*LearnView, error) {
	p, course, err := s.activeCourseTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ChallengeProgressRepo.CompletedChallengeIDs(ctx, userID, challengeIDs(course))
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	subscribed, err := s.Subscriptions.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &LearnView{
		ActiveCourse:          &model.Course{BaseModel: course.BaseModel, Title: course.Title, ImageSrc: course.ImageSrc},
		Hearts:                p.Hearts,
		Points:                p.Points,
		HasActiveSubscription: subscribed,
		Units:                 make([]UnitView, 0, len(course.Units)),
	}

	for _, unit := range course.Units {
		uv := UnitView{
			ID:          unit.ID,
			Title:       unit.Title,
			Description: unit.Description,
			Order:       unit.Order,
			Lessons:     make([]LessonSummary, 0, len(unit.Lessons)),
		}
		for i := range unit.Lessons {
			lesson := &unit.Lessons[i]
			done := lessonCompleted(lesson, completed)
			uv.Lessons = append(uv.Lessons, LessonSummary{
				ID:        lesson.ID,
				Title:     lesson.Title,
				Order:     lesson.Order,
				Completed: done,
			})

			if !done && view.ActiveLessonID == nil {
				id := lesson.ID
				view.ActiveLessonID = &id
				finished := 0
				for _, ch := range lesson.Challenges {
					if completed[ch.ID] {
						finished++
					}
				}
				view.ActiveLessonPercentage = percentage(finished, len(lesson.Challenges))
			}
		}
		view.Units = append(view.Units, uv)
	}
	return view, nil
}

// GetLessonView lessonID 为 0 时返回当前课时（第一个未完成的课时）
func (s *ViewService) GetLessonView(ctx context.Context, userID, lessonID uint) (*LessonView, error) {
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, util.ErrUserProgressNotFound
	}

	if lessonID == 0 {
		learn, err := s.GetLearnView(ctx, userID)
		if err != nil {
			return nil, err
		}
		if learn.ActiveLessonID == nil {
			return nil, util.ErrLessonNotFound
		}
		lessonID = *learn.ActiveLessonID
	}

	lesson, err := s.ChallengeRepo.FindLessonWithChallenges(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}

	ids := make([]uint, 0, len(lesson.Challenges))
	for _, ch := range lesson.Challenges {
		ids = append(ids, ch.ID)
	}
	completed, err := s.ChallengeProgressRepo.CompletedChallengeIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	subscribed, err := s.Subscriptions.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &LessonView{
		ID:                    lesson.ID,
		Title:                 lesson.Title,
		UnitID:                lesson.UnitID,
		Challenges:            make([]ChallengeView, 0, len(lesson.Challenges)),
		Hearts:                p.Hearts,
		Points:                p.Points,
		HasActiveSubscription: subscribed,
	}
	finished := 0
	for _, ch := range lesson.Challenges {
		done := completed[ch.ID]
		if done {
			finished++
		}
		view.Challenges = append(view.Challenges, ChallengeView{Challenge: ch, Completed: done})
	}
	view.Percentage = percentage(finished, len(lesson.Challenges))
	return view, nil
}

func (s *ViewService) GetShopView(ctx context.Context, userID uint) (*ShopView, error) {
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, util.ErrUserProgressNotFound
	}
	subscribed, err := s.Subscriptions.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	game := s.Game.GameConfig()
	return &ShopView{
		Hearts:                p.Hearts,
		Points:                p.Points,
		MaxHearts:             game.MaxHearts,
		RefillPrice:           game.RefillPrice,
		CanRefill:             p.Hearts < game.MaxHearts && p.Points >= game.RefillPrice,
		HasActiveSubscription: subscribed,
	}, nil
}

func (s *ViewService) GetQuestsView(ctx context.Context, userID uint) (*QuestsView, error) {
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, util.ErrUserProgressNotFound
	}

	view := &QuestsView{Points: p.Points, Quests: make([]Quest, 0, len(QuestMilestones))}
	for _, value := range QuestMilestones {
		view.Quests = append(view.Quests, Quest{
			Title:     fmt.Sprintf("Earn %d XP", value),
			Value:     value,
			Progress:  util.ClampInt(percentage(p.Points, value), 0, 100),
			Completed: p.Points >= value,
		})
	}
	return view, nil
}

func (s *ViewService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.UserProgressRepo.TopByPoints(ctx, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			UserID:       row.UserID,
			UserName:     row.UserName,
			UserImageSrc: row.UserImageSrc,
			Points:       row.Points,
		})
	}
	return entries, nil
}

func (s *ViewService) ListCourses(ctx context.Context, userID uint) (*CoursesView, error) {
	courses, err := s.CourseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	view := &CoursesView{Courses: courses}
	if userID != 0 {
		p, err := s.UserProgressRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load user progress: %w", err)
		}
		if p != nil {
			view.ActiveCourseID = p.ActiveCourseID
		}
	}
	return view, nil
}
