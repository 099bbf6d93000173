package service

import (
	"context"
	"errors"
	"fmt"
	"lingua_backend/internal/config"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/util"
	"lingua_backend/pkg/logger"
	"lingua_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutRequest 创建订阅结账会话所需的信息
type CheckoutRequest struct {
	UserID      uint
	Email       string
	ProductName string
	Description string
	Currency    string
	UnitAmount  int64
	ReturnURL   string
}

// PaymentProvider 支付平台抽象，返回跳转地址
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

type SubscriptionStatus struct {
	IsActive         bool       `json:"isActive"`
	StripePriceID    string     `json:"stripePriceId,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

type SubscriptionService struct {
	Repo     *repository.SubscriptionRepository
	UserRepo *repository.UserRepository
	Provider PaymentProvider
	Cfg      config.PaymentConfig
	Now      func() time.Time
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, userRepo *repository.UserRepository, provider PaymentProvider, cfg config.PaymentConfig) *SubscriptionService {
	return &SubscriptionService{
		Repo:     repo,
		UserRepo: userRepo,
		Provider: provider,
		Cfg:      cfg,
		Now:      time.Now,
	}
}

// IsActive 订阅状态的唯一判定入口
func (s *SubscriptionService) IsActive(ctx context.Context, userID uint) (bool, error) {
	sub, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return false, nil
	}
	return sub.IsActive(s.Now()), nil
}

func (s *SubscriptionService) GetStatus(ctx context.Context, userID uint) (*SubscriptionStatus, error) {
	sub, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return &SubscriptionStatus{}, nil
	}

	periodEnd := sub.StripeCurrentPeriodEnd
	return &SubscriptionStatus{
		IsActive:         sub.IsActive(s.Now()),
		StripePriceID:    sub.StripePriceID,
		CurrentPeriodEnd: &periodEnd,
	}, nil
}

// CreateCheckoutURL 已有支付客户时返回账单门户地址，否则新建订阅结账会话
func (s *SubscriptionService) CreateCheckoutURL(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", util.ErrUnauthorized
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrUnauthorized
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	sub, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load subscription: %w", err)
	}

	returnURL := s.Cfg.AppURL + "/shop"

	if sub != nil && sub.StripeCustomerID != "" {
		url, err := s.Provider.CreatePortalSession(ctx, sub.StripeCustomerID, returnURL)
		if err != nil {
			monitoring.CheckoutSessions.WithLabelValues("error").Inc()
			logger.Log.Warn("Billing portal session failed", zap.Uint("userId", userID), zap.Error(err))
			return "", fmt.Errorf("%w: %s", util.ErrPaymentProvider, err.Error())
		}
		monitoring.CheckoutSessions.WithLabelValues("portal").Inc()
		return url, nil
	}

	url, err := s.Provider.CreateCheckoutSession(ctx, CheckoutRequest{
		UserID:      userID,
		Email:       user.Email,
		ProductName: s.Cfg.ProductName,
		Description: s.Cfg.Description,
		Currency:    s.Cfg.Currency,
		UnitAmount:  s.Cfg.UnitAmount,
		ReturnURL:   returnURL,
	})
	if err != nil {
		monitoring.CheckoutSessions.WithLabelValues("error").Inc()
		logger.Log.Warn("Checkout session failed", zap.Uint("userId", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %s", util.ErrPaymentProvider, err.Error())
	}
	monitoring.CheckoutSessions.WithLabelValues("checkout").Inc()
	return url, nil
}
