package service

import (
	"context"
	"errors"
	"testing"

	"lingua_backend/internal/model"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/testutil"
	"lingua_backend/internal/util"

	"gorm.io/gorm"
)

func newViewService(db *gorm.DB) *ViewService {
	subs := NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		nil,
		testPayment,
	)
	return NewViewService(
		repository.NewCourseRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewChallengeProgressRepository(db),
		repository.NewUserProgressRepository(db),
		subs,
		staticGame(defaultGame),
	)
}

func setActiveCourse(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	if err := db.Model(&model.UserProgress{}).Where("user_id = ?", userID).Update("active_course_id", courseID).Error; err != nil {
		t.Fatalf("set active course: %v", err)
	}
}

func TestLearnViewRequiresActiveCourse(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 5, 0)
	ghost := testutil.SeedUserWithoutProgress(t, db, "ghost@example.com")
	svc := newViewService(db)

	if _, err := svc.GetLearnView(context.Background(), user.ID); !errors.Is(err, util.ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse, got %v", err)
	}
	if _, err := svc.GetLearnView(context.Background(), ghost.ID); !errors.Is(err, util.ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse for missing progress, got %v", err)
	}
}

func TestLearnViewTracksActiveLesson(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 4, 20)
	content := testutil.SeedCourse(t, db, "Spanish", 4)
	setActiveCourse(t, db, user.ID, content.Course.ID)
	testutil.SeedCompletion(t, db, user.ID, content.Challenges[0].ID)
	svc := newViewService(db)

	view, err := svc.GetLearnView(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetLearnView: %v", err)
	}
	if view.ActiveCourse == nil || view.ActiveCourse.ID != content.Course.ID {
		t.Fatalf("active course: %+v", view.ActiveCourse)
	}
	if view.Hearts != 4 || view.Points != 20 || view.HasActiveSubscription {
		t.Fatalf("unexpected stats: %+v", view)
	}
	if len(view.Units) != 1 || len(view.Units[0].Lessons) != 1 {
		t.Fatalf("units: %+v", view.Units)
	}
	if view.Units[0].Lessons[0].Completed {
		t.Fatalf("lesson should not be completed yet")
	}
	if view.ActiveLessonID == nil || *view.ActiveLessonID != content.Lesson.ID {
		t.Fatalf("active lesson: %v", view.ActiveLessonID)
	}
	if view.ActiveLessonPercentage != 25 {
		t.Fatalf("percentage: got %d want 25", view.ActiveLessonPercentage)
	}

	for _, ch := range content.Challenges[1:] {
		testutil.SeedCompletion(t, db, user.ID, ch.ID)
	}
	view, err = svc.GetLearnView(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetLearnView: %v", err)
	}
	if !view.Units[0].Lessons[0].Completed || view.ActiveLessonID != nil {
		t.Fatalf("expected completed lesson and no active lesson: %+v", view)
	}
}

func TestLessonView(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 3, 0)
	content := testutil.SeedCourse(t, db, "Spanish", 2)
	setActiveCourse(t, db, user.ID, content.Course.ID)
	testutil.SeedCompletion(t, db, user.ID, content.Challenges[1].ID)
	svc := newViewService(db)
	ctx := context.Background()

	view, err := svc.GetLessonView(ctx, user.ID, content.Lesson.ID)
	if err != nil {
		t.Fatalf("GetLessonView: %v", err)
	}
	if len(view.Challenges) != 2 {
		t.Fatalf("challenges: %d", len(view.Challenges))
	}
	if view.Challenges[0].Completed || !view.Challenges[1].Completed {
		t.Fatalf("completion flags: %+v", view.Challenges)
	}
	if len(view.Challenges[0].Options) != 2 {
		t.Fatalf("options not loaded")
	}
	if view.Percentage != 50 || view.Hearts != 3 {
		t.Fatalf("percentage=%d hearts=%d", view.Percentage, view.Hearts)
	}

	active, err := svc.GetLessonView(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("GetLessonView active: %v", err)
	}
	if active.ID != content.Lesson.ID {
		t.Fatalf("active lesson: got %d", active.ID)
	}

	if _, err := svc.GetLessonView(ctx, user.ID, 9999); !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestShopView(t *testing.T) {
	db := testutil.DB(t)
	poor := testutil.SeedUser(t, db, "poor@example.com", 2, 5)
	rich := testutil.SeedUser(t, db, "rich@example.com", 2, 50)
	full := testutil.SeedUser(t, db, "full@example.com", 5, 50)
	svc := newViewService(db)
	ctx := context.Background()

	cases := []struct {
		userID uint
		want   bool
	}{
		{poor.ID, false},
		{rich.ID, true},
		{full.ID, false},
	}
	for _, tc := range cases {
		view, err := svc.GetShopView(ctx, tc.userID)
		if err != nil {
			t.Fatalf("GetShopView: %v", err)
		}
		if view.CanRefill != tc.want {
			t.Fatalf("user %d canRefill: got %v want %v", tc.userID, view.CanRefill, tc.want)
		}
		if view.MaxHearts != 5 || view.RefillPrice != 10 {
			t.Fatalf("shop config: %+v", view)
		}
	}
}

func TestQuestsView(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 5, 60)
	svc := newViewService(db)

	view, err := svc.GetQuestsView(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetQuestsView: %v", err)
	}
	if len(view.Quests) != len(QuestMilestones) {
		t.Fatalf("quests: %d", len(view.Quests))
	}
	want := []struct {
		progress  int
		completed bool
	}{
		{100, true},
		{100, true},
		{60, false},
		{12, false},
		{6, false},
	}
	for i, w := range want {
		q := view.Quests[i]
		if q.Progress != w.progress || q.Completed != w.completed {
			t.Fatalf("quest %d (%d XP): got progress=%d completed=%v", i, q.Value, q.Progress, q.Completed)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	db := testutil.DB(t)
	for i := 0; i < 12; i++ {
		testutil.SeedUser(t, db, string(rune('a'+i))+"@example.com", 5, i*10)
	}
	svc := newViewService(db)

	entries, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != LeaderboardSize {
		t.Fatalf("entries: got %d", len(entries))
	}
	if entries[0].Points != 110 || entries[0].Rank != 1 {
		t.Fatalf("top entry: %+v", entries[0])
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Points > entries[i-1].Points {
			t.Fatalf("leaderboard not sorted at %d", i)
		}
	}
}

func TestListCourses(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 5, 0)
	spanish := testutil.SeedCourse(t, db, "Spanish", 1)
	testutil.SeedCourse(t, db, "French", 1)
	setActiveCourse(t, db, user.ID, spanish.Course.ID)
	svc := newViewService(db)

	view, err := svc.ListCourses(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(view.Courses) != 2 {
		t.Fatalf("courses: %d", len(view.Courses))
	}
	if view.ActiveCourseID == nil || *view.ActiveCourseID != spanish.Course.ID {
		t.Fatalf("active course id: %v", view.ActiveCourseID)
	}
}
