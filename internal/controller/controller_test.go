package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lingua_backend/internal/config"
	"lingua_backend/internal/middleware"
	"lingua_backend/internal/model"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/service"
	"lingua_backend/internal/testutil"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type published struct {
	userID uint
	paths  []string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (f *fakePublisher) Publish(ctx context.Context, userID uint, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{userID: userID, paths: paths})
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeProvider struct {
	err error
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, req service.CheckoutRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.example/session", nil
}

func (f *fakeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return "https://billing.example/portal", nil
}

type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	publisher *fakePublisher
	provider  *fakeProvider
	cfg       *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "controller-secret", ExpireTime: time.Hour},
		Game:    config.GameConfig{MaxHearts: 5, PointsPerChallenge: 10, RefillPrice: 10},
		Payment: config.PaymentConfig{Currency: "usd", UnitAmount: 2000, AppURL: "http://localhost:3000"},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
	}

	userRepo := repository.NewUserRepository(db)
	userProgressRepo := repository.NewUserProgressRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	challengeProgressRepo := repository.NewChallengeProgressRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	provider := &fakeProvider{}
	publisher := &fakePublisher{}
	subs := service.NewSubscriptionService(repository.NewSubscriptionRepository(db), userRepo, provider, cfg.Payment)
	progress := service.NewProgressService(db, userProgressRepo, challengeRepo, challengeProgressRepo, subs, cfg.Game)
	views := service.NewViewService(courseRepo, challengeRepo, challengeProgressRepo, userProgressRepo, subs, progress)
	courses := service.NewCourseService(db, courseRepo, challengeRepo, userRepo, userProgressRepo, service.NewStorageService(cfg), progress)

	authCtrl := NewAuthController(service.NewAuthService(userRepo, cfg))
	progressCtrl := NewProgressController(progress, publisher)
	courseCtrl := NewCourseController(courses, views, publisher)
	learnCtrl := NewLearnController(views)
	subCtrl := NewSubscriptionController(subs)
	adminCtrl := NewAdminController(courses)

	r := gin.New()
	r.POST("/api/register", authCtrl.Register)
	r.POST("/api/login", authCtrl.Login)

	api := r.Group("/api", middleware.AuthMiddleware(&cfg.JWT))
	api.GET("/profile", authCtrl.GetProfile)
	api.GET("/courses", courseCtrl.ListCourses)
	api.POST("/user-progress", courseCtrl.SelectCourse)
	api.GET("/learn", learnCtrl.GetLearn)
	api.GET("/lessons/active", learnCtrl.GetActiveLesson)
	api.GET("/lessons/:id", learnCtrl.GetLesson)
	api.POST("/challenge-progress", progressCtrl.CompleteChallenge)
	api.POST("/hearts/reduce", progressCtrl.ReduceHearts)
	api.POST("/hearts/refill", progressCtrl.RefillHearts)
	api.GET("/shop", learnCtrl.GetShop)
	api.GET("/quests", learnCtrl.GetQuests)
	api.GET("/leaderboard", learnCtrl.GetLeaderboard)
	api.GET("/subscription", subCtrl.GetSubscription)
	api.POST("/subscription/checkout", subCtrl.CreateCheckout)

	admin := api.Group("/admin", middleware.RoleMiddleware(model.Admin))
	admin.POST("/courses", adminCtrl.CreateCourse)
	admin.POST("/units", adminCtrl.CreateUnit)
	admin.POST("/lessons", adminCtrl.CreateLesson)
	admin.POST("/challenges", adminCtrl.CreateChallenge)

	return &testEnv{db: db, router: r, publisher: publisher, provider: provider, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, user *model.User) string {
	t.Helper()
	tok, err := util.GenerateJWT(user, e.cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return d
}

func TestMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	paths := []string{"/api/challenge-progress", "/api/hearts/reduce", "/api/hearts/refill", "/api/user-progress", "/api/subscription/checkout"}
	for _, p := range paths {
		w, _ := env.do(t, http.MethodPost, p, "", map[string]uint{"challengeId": 1})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d want 401", p, w.Code)
		}
	}
	if env.publisher.count() != 0 {
		t.Fatalf("unauthenticated requests must not publish")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d %s", w.Code, w.Body.String())
	}
	w, _ = env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got %d", w.Code)
	}

	w, resp := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d %s", w.Code, w.Body.String())
	}
	token, _ := data(t, resp)["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token")
	}

	w, _ = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: got %d", w.Code)
	}

	w, resp = env.do(t, http.MethodGet, "/api/profile", token, nil)
	if w.Code != http.StatusOK || data(t, resp)["email"] != "ana@example.com" {
		t.Fatalf("profile: %d %v", w.Code, resp)
	}
	if _, leaked := data(t, resp)["password"]; leaked {
		t.Fatalf("profile leaks password hash")
	}

	w, resp = env.do(t, http.MethodGet, "/api/shop", token, nil)
	if w.Code != http.StatusOK || data(t, resp)["hearts"] != float64(5) {
		t.Fatalf("new user shop: %d %v", w.Code, resp)
	}
}

func TestCompleteChallengeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.db, "a@example.com", 0, 50)
	content := testutil.SeedCourse(t, env.db, "Spanish", 2)
	testutil.SeedCompletion(t, env.db, user.ID, content.Challenges[1].ID)
	token := env.token(t, user)

	w, resp := env.do(t, http.MethodPost, "/api/challenge-progress", token, map[string]uint{"challengeId": content.Challenges[0].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("first attempt: %d %s", w.Code, w.Body.String())
	}
	d := data(t, resp)
	if d["applied"] != false || d["error"] != "hearts" {
		t.Fatalf("expected hearts rejection: %v", d)
	}
	if env.publisher.count() != 0 {
		t.Fatalf("rejected completion must not publish")
	}

	w, resp = env.do(t, http.MethodPost, "/api/challenge-progress", token, map[string]uint{"challengeId": content.Challenges[1].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("practice attempt: %d %s", w.Code, w.Body.String())
	}
	d = data(t, resp)
	if d["applied"] != true || d["practice"] != true || d["hearts"] != float64(1) || d["points"] != float64(60) {
		t.Fatalf("practice result: %v", d)
	}
	if env.publisher.count() != 1 {
		t.Fatalf("expected one publish, got %d", env.publisher.count())
	}
	ev := env.publisher.events[0]
	if ev.userID != user.ID || len(ev.paths) != 5 {
		t.Fatalf("published event: %+v", ev)
	}

	w, _ = env.do(t, http.MethodPost, "/api/challenge-progress", token, map[string]uint{"challengeId": 9999})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown challenge: got %d", w.Code)
	}
	w, _ = env.do(t, http.MethodPost, "/api/challenge-progress", token, map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing challengeId: got %d", w.Code)
	}
}

func TestHeartsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.db, "a@example.com", 5, 5)
	content := testutil.SeedCourse(t, env.db, "Spanish", 1)
	token := env.token(t, user)

	w, _ := env.do(t, http.MethodPost, "/api/hearts/refill", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("refill with full hearts: got %d", w.Code)
	}

	w, resp := env.do(t, http.MethodPost, "/api/hearts/reduce", token, map[string]uint{"challengeId": content.Challenges[0].ID})
	if w.Code != http.StatusOK || data(t, resp)["hearts"] != float64(4) {
		t.Fatalf("reduce: %d %v", w.Code, resp)
	}

	w, _ = env.do(t, http.MethodPost, "/api/hearts/refill", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("refill without points: got %d", w.Code)
	}
	p := testutil.Progress(t, env.db, user.ID)
	if p.Hearts != 4 || p.Points != 5 {
		t.Fatalf("rejected refill changed state: %+v", p)
	}

	if err := env.db.Model(&model.UserProgress{}).Where("user_id = ?", user.ID).Update("points", 30).Error; err != nil {
		t.Fatalf("set points: %v", err)
	}
	w, resp = env.do(t, http.MethodPost, "/api/hearts/refill", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refill: %d %s", w.Code, w.Body.String())
	}
	d := data(t, resp)
	if d["hearts"] != float64(5) || d["points"] != float64(20) {
		t.Fatalf("refill result: %v", d)
	}
}

func TestSelectCourseAndLearn(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.db, "a@example.com", 5, 0)
	content := testutil.SeedCourse(t, env.db, "Spanish", 2)
	token := env.token(t, user)

	w, _ := env.do(t, http.MethodGet, "/api/learn", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("learn without course: got %d", w.Code)
	}

	w, resp := env.do(t, http.MethodPost, "/api/user-progress", token, map[string]uint{"courseId": content.Course.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("select course: %d %s", w.Code, w.Body.String())
	}
	if data(t, resp)["activeCourseId"] != float64(content.Course.ID) {
		t.Fatalf("select result: %v", resp)
	}
	if env.publisher.count() != 1 {
		t.Fatalf("select course should publish stale views")
	}

	w, resp = env.do(t, http.MethodGet, "/api/learn", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("learn: %d %s", w.Code, w.Body.String())
	}
	if data(t, resp)["activeLessonId"] != float64(content.Lesson.ID) {
		t.Fatalf("active lesson: %v", data(t, resp)["activeLessonId"])
	}

	w, _ = env.do(t, http.MethodGet, "/api/lessons/active", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("active lesson: got %d", w.Code)
	}
	w, _ = env.do(t, http.MethodGet, "/api/lessons/abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad lesson id: got %d", w.Code)
	}
	for _, p := range []string{"/api/courses", "/api/quests", "/api/leaderboard", "/api/subscription"} {
		if w, _ := env.do(t, http.MethodGet, p, token, nil); w.Code != http.StatusOK {
			t.Fatalf("%s: got %d", p, w.Code)
		}
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.db, "a@example.com", 5, 0)
	token := env.token(t, user)

	w, resp := env.do(t, http.MethodPost, "/api/subscription/checkout", token, nil)
	if w.Code != http.StatusOK || data(t, resp)["url"] != "https://checkout.example/session" {
		t.Fatalf("checkout: %d %v", w.Code, resp)
	}

	env.provider.err = errors.New("No such price")
	w, resp = env.do(t, http.MethodPost, "/api/subscription/checkout", token, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("provider failure: got %d", w.Code)
	}
	if resp["message"] != "No such price" {
		t.Fatalf("provider message not surfaced: %v", resp["message"])
	}
}

func TestAdminContentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	student := testutil.SeedUser(t, env.db, "student@example.com", 5, 0)
	admin := testutil.SeedUser(t, env.db, "admin@example.com", 5, 0)
	admin.Role = model.Admin
	adminToken := env.token(t, admin)

	w, _ := env.do(t, http.MethodPost, "/api/admin/courses", env.token(t, student), map[string]string{"title": "Japanese"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student creating course: got %d", w.Code)
	}

	w, resp := env.do(t, http.MethodPost, "/api/admin/courses", adminToken, map[string]string{"title": "Japanese", "imageSrc": "/jp.svg"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: %d %s", w.Code, w.Body.String())
	}
	courseID := uint(data(t, resp)["id"].(float64))

	w, resp = env.do(t, http.MethodPost, "/api/admin/units", adminToken, map[string]interface{}{"courseId": courseID, "title": "Unit 1", "order": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("create unit: %d %s", w.Code, w.Body.String())
	}
	unitID := uint(data(t, resp)["id"].(float64))

	w, resp = env.do(t, http.MethodPost, "/api/admin/lessons", adminToken, map[string]interface{}{"unitId": unitID, "title": "Kana", "order": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("create lesson: %d %s", w.Code, w.Body.String())
	}
	lessonID := uint(data(t, resp)["id"].(float64))

	bad := map[string]interface{}{
		"lessonId": lessonID, "type": "SELECT", "question": "あ?",
		"options": []map[string]interface{}{{"text": "a", "correct": true}, {"text": "i", "correct": true}},
	}
	w, _ = env.do(t, http.MethodPost, "/api/admin/challenges", adminToken, bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("two correct options: got %d", w.Code)
	}

	good := map[string]interface{}{
		"lessonId": lessonID, "type": "SELECT", "question": "あ?",
		"options": []map[string]interface{}{{"text": "a", "correct": true}, {"text": "i"}},
	}
	w, _ = env.do(t, http.MethodPost, "/api/admin/challenges", adminToken, good)
	if w.Code != http.StatusCreated {
		t.Fatalf("create challenge: %d %s", w.Code, w.Body.String())
	}
}
