package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
	"github.com/taskdeck/taskdeck/pkg/helpers"
)

var (
	// ErrEmailTaken maps to 409: an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrEmailNotFound maps to 404 on sign-in (the original discloses
	// unknown emails; wrong passwords get a distinct 401).
	ErrEmailNotFound = errors.New("no account with this email")
	// ErrWrongPassword maps to 401.
	ErrWrongPassword = errors.New("wrong password")
)

// AuthService owns registration and credential verification. Tokens are not
// persisted server-side; a signed cookie is the whole session.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a user with a hashed password. Duplicate emails fail with
// ErrEmailTaken whether caught by the pre-check or by the unique index.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", in.Email).Error("create user failed")
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and mints a session token embedding
// {sub, email, name}.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrEmailNotFound
		}
		// A store failure is not an unknown email; let the handler report it
		// as a server error.
		if s.Logger != nil {
			s.Logger.WithError(err).Error("lookup user failed")
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrWrongPassword
	}
	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Email, u.FullName())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}
