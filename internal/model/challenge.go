package model

import "time"

type ChallengeType string

const (
	ChallengeSelect ChallengeType = "SELECT"
	// ChallengeAssist 题干固定为 "Select the correct meaning"，原问题以气泡形式展示
	ChallengeAssist ChallengeType = "ASSIST"
)

func (t ChallengeType) Valid() bool {
	return t == ChallengeSelect || t == ChallengeAssist
}

// swagger:model Challenge
type Challenge struct {
	BaseModel
	LessonID uint              `gorm:"index;not null" json:"lessonId"`
	Type     ChallengeType     `gorm:"size:20;not null" json:"type"`
	Question string            `gorm:"type:text;not null" json:"question"`
	Order    int               `gorm:"column:sort_order;not null" json:"order"`
	Options  []ChallengeOption `gorm:"foreignKey:ChallengeID" json:"challengeOptions,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// swagger:model ChallengeOption
type ChallengeOption struct {
	BaseModel
	ChallengeID uint   `gorm:"index;not null" json:"challengeId"`
	Text        string `gorm:"type:text;not null" json:"text"`
	Correct     bool   `gorm:"not null;default:false" json:"correct"`
	ImageSrc    string `gorm:"size:255" json:"imageSrc,omitempty"`
	AudioSrc    string `gorm:"size:255" json:"audioSrc,omitempty"`
}

func (ChallengeOption) TableName() string {
	return "challenge_options"
}

// ChallengeProgress 用户对某道题的完成记录，(user_id, challenge_id) 唯一
// swagger:model ChallengeProgress
type ChallengeProgress struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"userId"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_user_challenge;index" json:"challengeId"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ChallengeProgress) TableName() string {
	return "challenge_progress"
}
