package testutil

import (
	"context"
	"fmt"
	"testing"

	"lingua_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每个测试独立的内存 sqlite 数据库，已完成迁移
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser 创建用户及其进度记录
func SeedUser(tb testing.TB, db *gorm.DB, email string, hearts, points int) *model.User {
	tb.Helper()
	u := &model.User{
		Name:     "learner",
		Email:    email,
		Password: "pw",
		Role:     model.Student,
		ImageSrc: "/mascot.svg",
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	p := &model.UserProgress{
		UserID:       u.ID,
		UserName:     u.Name,
		UserImageSrc: u.ImageSrc,
		Hearts:       hearts,
		Points:       points,
	}
	if err := db.Select("*").Create(p).Error; err != nil {
		tb.Fatalf("seed user progress: %v", err)
	}
	return u
}

// SeedUserWithoutProgress 创建没有进度记录的用户
func SeedUserWithoutProgress(tb testing.TB, db *gorm.DB, email string) *model.User {
	tb.Helper()
	u := &model.User{Name: "ghost", Email: email, Password: "pw", Role: model.Student}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// Content 一门课程：一个单元、一个课时、若干题目
type Content struct {
	Course     *model.Course
	Unit       *model.Unit
	Lesson     *model.Lesson
	Challenges []*model.Challenge
}

// SeedCourse 创建课程，每道题两个选项，第一个为正确答案
func SeedCourse(tb testing.TB, db *gorm.DB, title string, challenges int) *Content {
	tb.Helper()
	course := &model.Course{Title: title, ImageSrc: "/es.svg"}
	if err := db.Create(course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	unit := &model.Unit{CourseID: course.ID, Title: "Unit 1", Description: "basics", Order: 1}
	if err := db.Create(unit).Error; err != nil {
		tb.Fatalf("seed unit: %v", err)
	}
	lesson := &model.Lesson{UnitID: unit.ID, Title: "Nouns", Order: 1}
	if err := db.Create(lesson).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}

	content := &Content{Course: course, Unit: unit, Lesson: lesson}
	for i := 0; i < challenges; i++ {
		ch := &model.Challenge{
			LessonID: lesson.ID,
			Type:     model.ChallengeSelect,
			Question: fmt.Sprintf("question %d", i+1),
			Order:    i + 1,
			Options: []model.ChallengeOption{
				{Text: "right", Correct: true},
				{Text: "wrong", Correct: false},
			},
		}
		if err := db.Create(ch).Error; err != nil {
			tb.Fatalf("seed challenge: %v", err)
		}
		content.Challenges = append(content.Challenges, ch)
	}
	return content
}

// SeedCompletion 直接写入一条完成记录
func SeedCompletion(tb testing.TB, db *gorm.DB, userID, challengeID uint) {
	tb.Helper()
	row := &model.ChallengeProgress{UserID: userID, ChallengeID: challengeID, Completed: true}
	if err := db.Create(row).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
}

// Progress 读取用户当前进度
func Progress(tb testing.TB, db *gorm.DB, userID uint) model.UserProgress {
	tb.Helper()
	var p model.UserProgress
	if err := db.WithContext(context.Background()).Where("user_id = ?", userID).First(&p).Error; err != nil {
		tb.Fatalf("load progress: %v", err)
	}
	return p
}

// CountCompletions 统计 (user, challenge) 的完成记录条数
func CountCompletions(tb testing.TB, db *gorm.DB, userID, challengeID uint) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(&model.ChallengeProgress{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&n).Error; err != nil {
		tb.Fatalf("count completions: %v", err)
	}
	return n
}
