package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/application"
	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/pkg/helpers"
	"github.com/taskdeck/taskdeck/pkg/mailer"
	"github.com/taskdeck/taskdeck/pkg/response"
	"github.com/taskdeck/taskdeck/pkg/validation"
)

// AuthHandler serves sign-up, sign-in, and sign-out.
type AuthHandler struct {
	Svc         *application.AuthService
	Logger      *logrus.Logger
	Cookies     *helpers.CookieManager
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.CookieManager, pub *helpers.RabbitPublisher, mailEnabled bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies, Pub: pub, MailEnabled: mailEnabled}
}

type signUpRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,strongpwd"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
	}
}

// SignUp handles POST /api/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Message(c, http.StatusConflict, "An account with this email already exists. Please log in instead.")
			return
		}
		h.Logger.WithError(err).Error("sign-up failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}

	// Welcome email is best-effort; a broker hiccup must not fail sign-up.
	if h.Pub != nil && h.MailEnabled {
		job := mailer.NewWelcomeJob(u.Email, u.FirstName)
		if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
			h.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email publish failed")
		}
	}

	response.Data(c, http.StatusCreated,
		fmt.Sprintf("Welcome aboard, %s! Your account has been created successfully.", u.FirstName),
		gin.H{"user": userJSON(u)})
}

// SignIn handles POST /api/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailNotFound):
			response.Message(c, http.StatusNotFound, "No account found with this email.")
		case errors.Is(err, application.ErrWrongPassword):
			response.Message(c, http.StatusUnauthorized, "Incorrect password. Please try again.")
		default:
			h.Logger.WithError(err).Error("sign-in failed")
			response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		}
		return
	}

	h.Cookies.SetSession(c, token, exp)
	response.Data(c, http.StatusOK,
		fmt.Sprintf("Welcome back, %s!", u.FirstName),
		gin.H{"user": userJSON(u)})
}

// SignOut handles POST /api/sign-out. Sessions live only in the cookie, so
// clearing it is the whole logout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Signed out successfully.")
}
