package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"codecore/internal/domain"
	"codecore/internal/repository"
	"codecore/internal/service"
)

type mockAccountRepo struct {
	accounts map[string]domain.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]domain.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account domain.Account) error {
	for _, a := range m.accounts {
		if a.Username == account.Username {
			return repository.ErrDuplicate
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (domain.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return domain.Account{}, pgx.ErrNoRows
	}
	return account, nil
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (domain.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.Account{}, pgx.ErrNoRows
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, pgx.ErrNoRows
}

func (m *mockAccountRepo) Update(_ context.Context, account domain.Account) error {
	current, ok := m.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	current.Username = account.Username
	current.Email = account.Email
	current.FirstName = account.FirstName
	current.LastName = account.LastName
	current.PhoneNumber = account.PhoneNumber
	current.BirthDate = account.BirthDate
	current.AvatarURL = account.AvatarURL
	current.UpdatedAt = account.UpdatedAt
	m.accounts[account.ID] = current
	return nil
}

func (m *mockAccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	account, ok := m.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.LastLoginAt = &at
	m.accounts[id] = account
	return nil
}

type mockCourseRepo struct {
	courses map[string]domain.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]domain.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course domain.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (domain.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return domain.Course{}, pgx.ErrNoRows
	}
	return course, nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	courses := make([]domain.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, c)
	}
	return courses, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course domain.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

type mockCompletedRepo struct {
	completed map[string]domain.CompletedCourse
	courses   *mockCourseRepo
	accounts  *mockAccountRepo
}

func newMockCompletedRepo(courses *mockCourseRepo, accounts *mockAccountRepo) *mockCompletedRepo {
	return &mockCompletedRepo{
		completed: make(map[string]domain.CompletedCourse),
		courses:   courses,
		accounts:  accounts,
	}
}

func (m *mockCompletedRepo) Create(_ context.Context, completed domain.CompletedCourse) error {
	if _, ok := m.courses.courses[completed.CourseID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := m.accounts.accounts[completed.AccountID]; !ok {
		return repository.ErrInvalidReference
	}
	m.completed[completed.ID] = completed
	return nil
}

func (m *mockCompletedRepo) GetByID(_ context.Context, id string) (domain.CompletedCourse, error) {
	completed, ok := m.completed[id]
	if !ok {
		return domain.CompletedCourse{}, pgx.ErrNoRows
	}
	return completed, nil
}

func (m *mockCompletedRepo) List(_ context.Context) ([]domain.CompletedCourse, error) {
	completed := make([]domain.CompletedCourse, 0, len(m.completed))
	for _, c := range m.completed {
		completed = append(completed, c)
	}
	return completed, nil
}

func (m *mockCompletedRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.completed[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.completed, id)
	return nil
}

type testServer struct {
	router      *gin.Engine
	accountRepo *mockAccountRepo
	courseRepo  *mockCourseRepo
}

func newTestServer(_ *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	accountRepo := newMockAccountRepo()
	courseRepo := newMockCourseRepo()
	completedRepo := newMockCompletedRepo(courseRepo, accountRepo)

	accountSvc := service.NewAccountService(logger, accountRepo, "/media/avatars/default.png")
	courseSvc := service.NewCourseService(courseRepo, completedRepo)
	sessionSvc := service.NewSessionService(service.NewMemoryTokenStore(), time.Hour)
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour)

	cookie := CookieSettings{Name: "sessionid", MaxAge: 3600}
	authMW := NewAuthMiddleware(cookie.Name, sessionSvc, jwtSvc, accountSvc)
	accountH := NewAccountHandler(logger, accountSvc, sessionSvc, cookie)
	tokenH := NewTokenHandler(logger, accountSvc, jwtSvc)
	courseH := NewCourseHandler(logger, courseSvc)

	return &testServer{
		router:      NewRouter(logger, authMW, accountH, tokenH, courseH),
		accountRepo: accountRepo,
		courseRepo:  courseRepo,
	}
}

func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(cookie)
	}
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "sessionid" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("expected a sessionid cookie")
	return nil
}

// register da de alta un usuario y devuelve la cookie de sesión emitida.
func (ts *testServer) register(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/users/register/", map[string]any{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}
