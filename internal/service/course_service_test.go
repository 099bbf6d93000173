package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lingua_backend/internal/config"
	"lingua_backend/internal/model"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/testutil"
	"lingua_backend/internal/util"

	"gorm.io/gorm"
)

type staticGame config.GameConfig

func (g staticGame) GameConfig() config.GameConfig { return config.GameConfig(g) }

func newCourseService(t *testing.T, db *gorm.DB) *CourseService {
	t.Helper()
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}}
	return NewCourseService(
		db,
		repository.NewCourseRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewUserRepository(db),
		repository.NewUserProgressRepository(db),
		storage,
		staticGame(defaultGame),
	)
}

func TestSelectCourse(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 2, 40)
	content := testutil.SeedCourse(t, db, "Spanish", 1)
	svc := newCourseService(t, db)

	res, err := svc.SelectCourse(context.Background(), user.ID, content.Course.ID)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if res.ActiveCourseID != content.Course.ID {
		t.Fatalf("active course: got %d", res.ActiveCourseID)
	}
	if len(res.StaleViews) != 2 || res.StaleViews[0] != "/courses" || res.StaleViews[1] != "/learn" {
		t.Fatalf("stale views: %v", res.StaleViews)
	}

	p := testutil.Progress(t, db, user.ID)
	if p.ActiveCourseID == nil || *p.ActiveCourseID != content.Course.ID {
		t.Fatalf("active course not stored: %v", p.ActiveCourseID)
	}
	if p.Hearts != 2 || p.Points != 40 {
		t.Fatalf("selecting a course must keep hearts and points: %+v", p)
	}
}

func TestSelectCourseCreatesProgress(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUserWithoutProgress(t, db, "new@example.com")
	content := testutil.SeedCourse(t, db, "Spanish", 1)
	svc := newCourseService(t, db)

	if _, err := svc.SelectCourse(context.Background(), user.ID, content.Course.ID); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	p := testutil.Progress(t, db, user.ID)
	if p.Hearts != 5 || p.Points != 0 {
		t.Fatalf("new progress should start full: %+v", p)
	}
}

func TestSelectCourseErrors(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "a@example.com", 5, 0)
	empty := &model.Course{Title: "Empty", ImageSrc: "/empty.svg"}
	if err := db.Create(empty).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	svc := newCourseService(t, db)
	ctx := context.Background()

	if _, err := svc.SelectCourse(ctx, user.ID, empty.ID); !errors.Is(err, util.ErrCourseEmpty) {
		t.Fatalf("expected ErrCourseEmpty, got %v", err)
	}
	if _, err := svc.SelectCourse(ctx, user.ID, 9999); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := svc.SelectCourse(ctx, 0, empty.ID); !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateChallenge(t *testing.T) {
	opts := func(correct ...bool) []model.ChallengeOption {
		var out []model.ChallengeOption
		for i, c := range correct {
			out = append(out, model.ChallengeOption{Text: string(rune('a' + i)), Correct: c})
		}
		return out
	}
	cases := []struct {
		name string
		ch   model.Challenge
		ok   bool
	}{
		{"valid select", model.Challenge{Type: model.ChallengeSelect, Question: "q", Options: opts(true, false)}, true},
		{"valid assist", model.Challenge{Type: model.ChallengeAssist, Question: "q", Options: opts(false, true, false)}, true},
		{"unknown type", model.Challenge{Type: "MATCH", Question: "q", Options: opts(true, false)}, false},
		{"empty question", model.Challenge{Type: model.ChallengeSelect, Options: opts(true, false)}, false},
		{"single option", model.Challenge{Type: model.ChallengeSelect, Question: "q", Options: opts(true)}, false},
		{"no correct", model.Challenge{Type: model.ChallengeSelect, Question: "q", Options: opts(false, false)}, false},
		{"two correct", model.Challenge{Type: model.ChallengeSelect, Question: "q", Options: opts(true, true)}, false},
	}
	for _, tc := range cases {
		err := ValidateChallenge(&tc.ch)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, util.ErrInvalidContent) {
			t.Fatalf("%s: expected ErrInvalidContent, got %v", tc.name, err)
		}
	}
}

func TestCreateContentHierarchy(t *testing.T) {
	db := testutil.DB(t)
	svc := newCourseService(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, CreateCourseRequest{Title: "Italian", ImageSrc: "/it.svg"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	unit, err := svc.CreateUnit(ctx, CreateUnitRequest{CourseID: course.ID, Title: "Unit 1", Order: 1})
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	lesson, err := svc.CreateLesson(ctx, CreateLessonRequest{UnitID: unit.ID, Title: "Greetings", Order: 1})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	ch, err := svc.CreateChallenge(ctx, CreateChallengeRequest{
		LessonID: lesson.ID,
		Type:     model.ChallengeSelect,
		Question: "Which one of these is \"ciao\"?",
		Order:    1,
		Options: []ChallengeOptionRequest{
			{Text: "hello", Correct: true},
			{Text: "cat"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if len(ch.Options) != 2 || ch.Options[0].ID == 0 {
		t.Fatalf("options not persisted: %+v", ch.Options)
	}

	if _, err := svc.CreateUnit(ctx, CreateUnitRequest{CourseID: 9999, Title: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := svc.CreateLesson(ctx, CreateLessonRequest{UnitID: 9999, Title: "x"}); !errors.Is(err, util.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
	_, err = svc.CreateChallenge(ctx, CreateChallengeRequest{
		LessonID: lesson.ID,
		Type:     model.ChallengeSelect,
		Question: "broken",
		Options:  []ChallengeOptionRequest{{Text: "a"}, {Text: "b"}},
	})
	if !errors.Is(err, util.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestImportCourseRollsBackOnInvalidChallenge(t *testing.T) {
	db := testutil.DB(t)
	svc := newCourseService(t, db)

	course := &model.Course{
		Title:    "German",
		ImageSrc: "/de.svg",
		Units: []model.Unit{{
			Title: "Unit 1",
			Order: 1,
			Lessons: []model.Lesson{{
				Title: "Basics",
				Order: 1,
				Challenges: []model.Challenge{
					{Type: model.ChallengeSelect, Question: "ok", Order: 1, Options: []model.ChallengeOption{{Text: "a", Correct: true}, {Text: "b"}}},
					{Type: model.ChallengeSelect, Question: "bad", Order: 2, Options: []model.ChallengeOption{{Text: "a"}, {Text: "b"}}},
				},
			}},
		}},
	}
	if err := svc.ImportCourse(context.Background(), course); !errors.Is(err, util.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid import left %d courses behind", count)
	}

	course.Units[0].Lessons[0].Challenges = course.Units[0].Lessons[0].Challenges[:1]
	if err := svc.ImportCourse(context.Background(), course); err != nil {
		t.Fatalf("ImportCourse: %v", err)
	}
	loaded, err := repository.NewCourseRepository(db).FindWithUnits(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("FindWithUnits: %v", err)
	}
	if len(loaded.Units) != 1 || len(loaded.Units[0].Lessons) != 1 || len(loaded.Units[0].Lessons[0].Challenges) != 1 {
		t.Fatalf("imported tree incomplete: %+v", loaded)
	}
}

func TestUploadCourseImage(t *testing.T) {
	db := testutil.DB(t)
	content := testutil.SeedCourse(t, db, "Spanish", 1)
	svc := newCourseService(t, db)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	header := multipartFile(t, "file", "flag.png", png)

	course, err := svc.UploadCourseImage(context.Background(), content.Course.ID, header)
	if err != nil {
		t.Fatalf("UploadCourseImage: %v", err)
	}
	if !strings.HasPrefix(course.ImageSrc, "/uploads/courses/") || !strings.HasSuffix(course.ImageSrc, ".png") {
		t.Fatalf("image src: %q", course.ImageSrc)
	}

	local := svc.Storage.Provider.(*LocalStorageProvider)
	stored := filepath.Join(local.Config.LocalPath, strings.TrimPrefix(course.ImageSrc, "/uploads/"))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	text := multipartFile(t, "file", "notes.png", []byte("just some text"))
	if _, err := svc.UploadCourseImage(context.Background(), content.Course.ID, text); !errors.Is(err, util.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent for non-image, got %v", err)
	}
}

func multipartFile(t *testing.T, field, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(data)
	w.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[field][0]
}
