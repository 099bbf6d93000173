package model

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

const DefaultUserImage = "/mascot.svg"

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	ImageSrc string   `gorm:"size:255;default:'/mascot.svg'" json:"imageSrc"`
}

func (User) TableName() string {
	return "users"
}
