package model

// Course 课程，例如 "Spanish"
// swagger:model Course
type Course struct {
	BaseModel
	Title    string `gorm:"size:100;not null" json:"title"`
	ImageSrc string `gorm:"size:255;not null" json:"imageSrc"`
	Units    []Unit `gorm:"foreignKey:CourseID" json:"units,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Unit
type Unit struct {
	BaseModel
	CourseID    uint     `gorm:"index;not null" json:"courseId"`
	Title       string   `gorm:"size:100;not null" json:"title"`
	Description string   `gorm:"size:255" json:"description"`
	Order       int      `gorm:"column:sort_order;not null" json:"order"`
	Lessons     []Lesson `gorm:"foreignKey:UnitID" json:"lessons,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	UnitID     uint        `gorm:"index;not null" json:"unitId"`
	Title      string      `gorm:"size:100;not null" json:"title"`
	Order      int         `gorm:"column:sort_order;not null" json:"order"`
	Challenges []Challenge `gorm:"foreignKey:LessonID" json:"challenges,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
