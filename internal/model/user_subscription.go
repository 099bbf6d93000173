package model

import "time"

// 订阅在当前周期结束后仍保留一天宽限期
const SubscriptionGracePeriod = 24 * time.Hour

// swagger:model UserSubscription
type UserSubscription struct {
	ID                     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                 uint      `gorm:"uniqueIndex;not null" json:"userId"`
	StripeCustomerID       string    `gorm:"size:100;uniqueIndex;not null" json:"stripeCustomerId"`
	StripeSubscriptionID   string    `gorm:"size:100;uniqueIndex;not null" json:"stripeSubscriptionId"`
	StripePriceID          string    `gorm:"size:100;not null" json:"stripePriceId"`
	StripeCurrentPeriodEnd time.Time `gorm:"not null" json:"stripeCurrentPeriodEnd"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

func (s *UserSubscription) IsActive(now time.Time) bool {
	if s == nil || s.StripePriceID == "" {
		return false
	}
	return s.StripeCurrentPeriodEnd.Add(SubscriptionGracePeriod).After(now)
}
