package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/application"
	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
	"github.com/taskdeck/taskdeck/pkg/helpers"
	"github.com/taskdeck/taskdeck/pkg/response"
	"github.com/taskdeck/taskdeck/pkg/validation"
)

func TestSignUp_ThenSignIn(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/sign-up", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "Sup3r#Secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out struct {
		Message string `json:"message"`
		User    struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"user"`
	}
	decode(t, w, &out)
	if out.User.ID == "" || out.User.Email != "ada@example.com" {
		t.Errorf("user = %+v", out.User)
	}
	if out.User.FirstName != "Ada" || out.User.LastName != "Lovelace" {
		t.Errorf("user names = %+v", out.User)
	}
	if !strings.Contains(out.Message, "Ada") {
		t.Errorf("message = %q, want greeting by first name", out.Message)
	}

	// The same credentials sign in afterwards.
	cookie := s.signIn(t, "ada@example.com")
	if cookie == "" {
		t.Fatal("empty session cookie")
	}
	claims, err := s.jwt.ParseSessionToken(cookie)
	if err != nil {
		t.Fatalf("cookie does not hold a valid session token: %v", err)
	}
	if claims.UserID() != out.User.ID || claims.Email != "ada@example.com" || claims.Name != "Ada Lovelace" {
		t.Errorf("claims = {sub:%s email:%s name:%s}", claims.UserID(), claims.Email, claims.Name)
	}
}

func TestSignUp_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/sign-up", "", map[string]string{
		"first_name": "",
		"last_name":  "Lovelace",
		"email":      "not-an-email",
		"password":   "weak",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, w, &out)
	for _, field := range []string{"first_name", "email", "password"} {
		if _, ok := out.Errors[field]; !ok {
			t.Errorf("missing field error for %q in %v", field, out.Errors)
		}
	}
	if len(s.users.byEmail) != 0 {
		t.Error("invalid sign-up created a record")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "ada@example.com")

	w := s.request(t, http.MethodPost, "/api/sign-up", "", map[string]string{
		"first_name": "Imposter",
		"last_name":  "User",
		"email":      "ada@example.com",
		"password":   "An0ther#Pass",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(s.users.byEmail) != 1 {
		t.Errorf("duplicate sign-up created a record: %d users", len(s.users.byEmail))
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/sign-in", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever1",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "ada@example.com")

	w := s.request(t, http.MethodPost, "/api/sign-in", "", map[string]string{
		"email":    "ada@example.com",
		"password": "Wr0ng#Secret",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName && c.Value != "" {
			t.Error("session cookie set on failed sign-in")
		}
	}
}

type brokenUserRepo struct{}

func (brokenUserRepo) Create(*entity.User) error { return errors.New("connection refused") }
func (brokenUserRepo) GetByID(string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}
func (brokenUserRepo) GetByEmail(string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

var _ repository.UserRepository = brokenUserRepo{}

// A store outage on sign-in is a 500, not a 404 claiming the email is
// unknown.
func TestSignIn_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwt := &helpers.JWTManager{Secret: []byte("handler-test-secret"), TTL: 168 * time.Hour}
	svc := application.NewAuthService(brokenUserRepo{}, jwt, logger)
	h := NewAuthHandler(svc, logger, helpers.NewCookie("", false), nil, false)

	r := gin.New()
	r.POST("/api/sign-in", h.SignIn)
	s := &testServer{engine: r, jwt: jwt}

	w := s.request(t, http.MethodPost, "/api/sign-in", "", map[string]string{
		"email":    "ada@example.com",
		"password": "Sup3r#Secret",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s, want 500", w.Code, w.Body.String())
	}
	var out struct {
		Message string `json:"message"`
	}
	decode(t, w, &out)
	if out.Message != response.MsgServerError {
		t.Errorf("message = %q, want the generic server error", out.Message)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName && c.Value != "" {
			t.Error("session cookie set on failed sign-in")
		}
	}
}

func TestSignOut_ClearsCookie(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "ada@example.com")
	cookie := s.signIn(t, "ada@example.com")

	w := s.request(t, http.MethodPost, "/api/sign-out", cookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("sign-out did not clear the session cookie")
	}
}
