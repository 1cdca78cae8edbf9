package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/application"
	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
	"github.com/taskdeck/taskdeck/internal/interface/middleware"
	"github.com/taskdeck/taskdeck/pkg/helpers"
	"github.com/taskdeck/taskdeck/pkg/validation"
)

// In-memory repositories backing the handler tests.

type memUserRepo struct {
	seq     int
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}, byEmail: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type memTaskRepo struct {
	seq   int
	tasks map[string]*entity.Task
}

func newMemTaskRepo() *memTaskRepo { return &memTaskRepo{tasks: map[string]*entity.Task{}} }

func (r *memTaskRepo) Create(t *entity.Task) error {
	r.seq++
	t.ID = fmt.Sprintf("task-%d", r.seq)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) GetByID(id string) (*entity.Task, error) {
	if t, ok := r.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memTaskRepo) matching(ownerID string, f repository.TaskFilter) []entity.Task {
	var out []entity.Task
	for _, t := range r.tasks {
		if t.UserID != ownerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memTaskRepo) List(ownerID string, f repository.TaskFilter, s repository.TaskSort, offset, limit int) ([]entity.Task, error) {
	out := r.matching(ownerID, f)
	if offset >= len(out) {
		return []entity.Task{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTaskRepo) Count(ownerID string, f repository.TaskFilter) (int, error) {
	return len(r.matching(ownerID, f)), nil
}

func (r *memTaskRepo) Update(t *entity.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) Delete(id string) error {
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// testServer wires the real handlers and auth middleware over the fakes.
type testServer struct {
	engine *gin.Engine
	users  *memUserRepo
	tasks  *memTaskRepo
	jwt    *helpers.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := newMemUserRepo()
	tasks := newMemTaskRepo()
	jwt := &helpers.JWTManager{Secret: []byte("handler-test-secret"), TTL: 168 * time.Hour}

	authSvc := application.NewAuthService(users, jwt, logger)
	taskSvc := application.NewTaskService(tasks, logger)
	cookies := helpers.NewCookie("", false)

	authH := NewAuthHandler(authSvc, logger, cookies, nil, false)
	taskH := NewTaskHandler(taskSvc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/sign-up", authH.SignUp)
	api.POST("/sign-in", authH.SignIn)
	api.POST("/sign-out", authH.SignOut)

	auth := api.Group("/")
	auth.Use(middleware.Auth(jwt))
	auth.GET("/tasks", taskH.List)
	auth.POST("/tasks", taskH.Create)
	auth.PUT("/tasks/:id", taskH.Update)
	auth.DELETE("/tasks/:id", taskH.Delete)

	return &testServer{engine: r, users: users, tasks: tasks, jwt: jwt}
}

func (s *testServer) request(t *testing.T, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signUp(t *testing.T, email string) {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/sign-up", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      email,
		"password":   "Sup3r#Secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status = %d, body %s", w.Code, w.Body.String())
	}
}

// signIn returns the session cookie value.
func (s *testServer) signIn(t *testing.T, email string) string {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/sign-in", "", map[string]string{
		"email":    email,
		"password": "Sup3r#Secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status = %d, body %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie set on sign-in")
	return ""
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func validTask() map[string]string {
	return map[string]string{
		"title":       "Fix bug",
		"description": "Resolve 500 error on prod",
		"priority":    "high",
		"status":      "pending",
	}
}

func (s *testServer) createTask(t *testing.T, cookie string, payload map[string]string) entity.Task {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/tasks", cookie, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task status = %d, body %s", w.Code, w.Body.String())
	}
	var out struct {
		Task entity.Task `json:"task"`
	}
	decode(t, w, &out)
	return out.Task
}
