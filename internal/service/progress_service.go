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
	"lingua_backend/pkg/monitoring"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionChecker 返回用户当前是否处于有效订阅
type SubscriptionChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

// CompletionResult 完成挑战的结果，Applied=false 时 Error 说明原因
type CompletionResult struct {
	Applied    bool     `json:"applied"`
	Error      string   `json:"error,omitempty"`
	Practice   bool     `json:"practice"`
	LessonID   uint     `json:"lessonId"`
	Hearts     int      `json:"hearts"`
	Points     int      `json:"points"`
	StaleViews []string `json:"staleViews"`
}

// HeartsResult 扣减或补满红心的结果，Skipped 为 practice 或 subscription 时表示本次无需扣减
type HeartsResult struct {
	Applied    bool     `json:"applied"`
	Error      string   `json:"error,omitempty"`
	Practice   bool     `json:"practice"`
	Skipped    string   `json:"skipped,omitempty"`
	Hearts     int      `json:"hearts"`
	Points     int      `json:"points"`
	StaleViews []string `json:"staleViews"`
}

const (
	SkippedPractice     = "practice"
	SkippedSubscription = "subscription"
)

type ProgressService struct {
	DB                    *gorm.DB
	UserProgressRepo      *repository.UserProgressRepository
	ChallengeRepo         *repository.ChallengeRepository
	ChallengeProgressRepo *repository.ChallengeProgressRepository
	Subscriptions         SubscriptionChecker

	mu   sync.RWMutex
	game config.GameConfig
}

func NewProgressService(
	db *gorm.DB,
	userProgressRepo *repository.UserProgressRepository,
	challengeRepo *repository.ChallengeRepository,
	challengeProgressRepo *repository.ChallengeProgressRepository,
	subscriptions SubscriptionChecker,
	game config.GameConfig,
) *ProgressService {
	return &ProgressService{
		DB:                    db,
		UserProgressRepo:      userProgressRepo,
		ChallengeRepo:         challengeRepo,
		ChallengeProgressRepo: challengeProgressRepo,
		Subscriptions:         subscriptions,
		game:                  game,
	}
}

// UpdateGameConfig 配置热更新时调用，非法配置保持原值
func (s *ProgressService) UpdateGameConfig(game config.GameConfig) error {
	if err := game.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
	logger.Log.Info("Game config updated",
		zap.Int("maxHearts", game.MaxHearts),
		zap.Int("pointsPerChallenge", game.PointsPerChallenge),
		zap.Int("refillPrice", game.RefillPrice))
	return nil
}

func (s *ProgressService) GameConfig() config.GameConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

type completionOutcome struct {
	practice bool
	rejected bool
}

// RecordChallengeCompletion 记录一次答题完成。首次完成需要红心（订阅用户除外），
// 重复完成按练习处理并恢复一颗红心
func (s *ProgressService) RecordChallengeCompletion(ctx context.Context, userID, challengeID uint) (*CompletionResult, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}

	current, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if current == nil {
		return nil, util.ErrUserProgressNotFound
	}

	challenge, err := s.findChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.Subscriptions.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	game := s.GameConfig()

	var outcome completionOutcome
	for attempt := 0; attempt < 2; attempt++ {
		outcome, err = s.applyCompletion(ctx, userID, challengeID, subscribed, game)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		// 并发的首次完成已经写入记录，按练习重试
		logger.Log.Debug("Concurrent first completion, retrying as practice",
			zap.Uint("userId", userID), zap.Uint("challengeId", challengeID))
	}
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	result := &CompletionResult{
		Practice: outcome.practice,
		LessonID: challenge.LessonID,
	}

	if outcome.rejected {
		monitoring.HeartsRejections.WithLabelValues("completion").Inc()
		result.Error = util.ResultErrorHearts
		result.Hearts = current.Hearts
		result.Points = current.Points
		return result, nil
	}

	result.Applied = true
	result.StaleViews = completionViews(challenge.LessonID)
	mode := "first"
	if outcome.practice {
		mode = "practice"
	}
	monitoring.ChallengeCompletions.WithLabelValues(mode).Inc()

	updated, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user progress: %w", err)
	}
	if updated != nil {
		result.Hearts = updated.Hearts
		result.Points = updated.Points
	}

	logger.Log.Info("Challenge completed",
		zap.Uint("userId", userID),
		zap.Uint("challengeId", challengeID),
		zap.Bool("practice", outcome.practice),
		zap.Int("points", result.Points))
	return result, nil
}

func (s *ProgressService) applyCompletion(ctx context.Context, userID, challengeID uint, subscribed bool, game config.GameConfig) (completionOutcome, error) {
	var outcome completionOutcome

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := s.ChallengeProgressRepo.WithTx(tx)
		userRepo := s.UserProgressRepo.WithTx(tx)

		existing, err := progressRepo.Find(ctx, userID, challengeID)
		if err != nil {
			return err
		}

		if existing != nil {
			outcome.practice = true
			if !existing.Completed {
				if err := progressRepo.MarkCompleted(ctx, existing.ID); err != nil {
					return err
				}
			}
			ok, err := userRepo.AddPointsAndHeart(ctx, userID, game.PointsPerChallenge, game.MaxHearts)
			if err != nil {
				return err
			}
			if !ok {
				return util.ErrUserProgressNotFound
			}
			return nil
		}

		ok, err := userRepo.AddPoints(ctx, userID, game.PointsPerChallenge, !subscribed)
		if err != nil {
			return err
		}
		if !ok {
			outcome.rejected = true
			return nil
		}

		return progressRepo.Create(ctx, &model.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challengeID,
			Completed:   true,
		})
	})
	return outcome, err
}

// ReduceHearts 答错扣一颗红心。练习题和订阅用户不扣减
func (s *ProgressService) ReduceHearts(ctx context.Context, userID, challengeID uint) (*HeartsResult, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}

	challenge, err := s.findChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	current, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if current == nil {
		return nil, util.ErrUserProgressNotFound
	}

	result := &HeartsResult{Hearts: current.Hearts, Points: current.Points}

	existing, err := s.ChallengeProgressRepo.Find(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("load challenge progress: %w", err)
	}
	if existing != nil && existing.Completed {
		result.Practice = true
		result.Skipped = SkippedPractice
		return result, nil
	}

	subscribed, err := s.Subscriptions.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscribed {
		result.Skipped = SkippedSubscription
		return result, nil
	}

	ok, err := s.UserProgressRepo.DecrementHeart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reduce hearts: %w", err)
	}
	if !ok {
		monitoring.HeartsRejections.WithLabelValues("reduce").Inc()
		result.Error = util.ResultErrorHearts
		return result, nil
	}

	if err := s.reload(ctx, userID, &result.Hearts, &result.Points); err != nil {
		return nil, err
	}
	result.Applied = true
	result.StaleViews = reduceViews(challenge.LessonID)

	logger.Log.Info("Heart reduced", zap.Uint("userId", userID), zap.Uint("challengeId", challengeID), zap.Int("hearts", result.Hearts))
	return result, nil
}

// RefillHearts 使用积分补满红心
func (s *ProgressService) RefillHearts(ctx context.Context, userID uint) (*HeartsResult, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}

	game := s.GameConfig()

	ok, err := s.UserProgressRepo.Refill(ctx, userID, game.MaxHearts, game.RefillPrice)
	if err != nil {
		return nil, fmt.Errorf("refill hearts: %w", err)
	}

	current, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if current == nil {
		return nil, util.ErrUserProgressNotFound
	}

	if !ok {
		if current.Hearts >= game.MaxHearts {
			return nil, util.ErrHeartsFull
		}
		return nil, util.ErrNotEnoughPoints
	}

	monitoring.HeartRefills.Inc()
	logger.Log.Info("Hearts refilled", zap.Uint("userId", userID), zap.Int("points", current.Points))

	return &HeartsResult{
		Applied:    true,
		Hearts:     current.Hearts,
		Points:     current.Points,
		StaleViews: refillViews(),
	}, nil
}

func (s *ProgressService) findChallenge(ctx context.Context, challengeID uint) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	return challenge, nil
}

func (s *ProgressService) reload(ctx context.Context, userID uint, hearts, points *int) error {
	updated, err := s.UserProgressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("reload user progress: %w", err)
	}
	if updated != nil {
		*hearts = updated.Hearts
		*points = updated.Points
	}
	return nil
}

func lessonView(lessonID uint) string {
	return fmt.Sprintf("%s/%d", util.ViewLesson, lessonID)
}

func completionViews(lessonID uint) []string {
	return []string{util.ViewLearn, util.ViewLesson, util.ViewQuests, util.ViewLeaderboard, lessonView(lessonID)}
}

func reduceViews(lessonID uint) []string {
	return []string{util.ViewShop, util.ViewLearn, util.ViewQuests, util.ViewLeaderboard, lessonView(lessonID)}
}

func refillViews() []string {
	return []string{util.ViewShop, util.ViewLearn, util.ViewQuests, util.ViewLeaderboard}
}
