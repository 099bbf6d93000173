package model

import "time"

// UserProgress 每个用户一行，记录红心、积分和当前课程
// swagger:model UserProgress
type UserProgress struct {
	UserID         uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	UserName       string    `gorm:"size:100;not null;default:'User'" json:"userName"`
	UserImageSrc   string    `gorm:"size:255;not null;default:'/mascot.svg'" json:"userImageSrc"`
	ActiveCourseID *uint     `gorm:"index" json:"activeCourseId"`
	ActiveCourse   *Course   `gorm:"foreignKey:ActiveCourseID" json:"activeCourse,omitempty"`
	Hearts         int       `gorm:"not null" json:"hearts"`
	Points         int       `gorm:"not null;default:0;index" json:"points"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
