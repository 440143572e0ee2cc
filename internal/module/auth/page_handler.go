package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/middleware"
)

// AuthPageHandler renders the login screen and handles its form submission.
type AuthPageHandler struct {
	svc        Service
	cookieName string
}

// NewPageHandler creates an AuthPageHandler.
func NewPageHandler(svc Service, cookieName string) *AuthPageHandler {
	return &AuthPageHandler{svc: svc, cookieName: cookieName}
}

// LoginPage renders the login form.
// GET /login
func (h *AuthPageHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "auth/login.html", gin.H{
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// LoginSubmit handles the login form.
// POST /login
func (h *AuthPageHandler) LoginSubmit(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "auth/login.html", gin.H{
			"Error":     "Please enter a valid email and password",
			"Email":     req.Email,
			"CSRFToken": middleware.GetCSRFToken(c),
		})
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.HTML(http.StatusOK, "auth/login.html", gin.H{
			"Error":     loginErrorMessage(err),
			"Email":     req.Email,
			"CSRFToken": middleware.GetCSRFToken(c),
		})
		return
	}

	secure := gin.Mode() == gin.ReleaseMode
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/castes")
}

// LogoutSubmit handles POST /logout.
func (h *AuthPageHandler) LogoutSubmit(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
		_ = h.svc.Logout(c.Request.Context(), id)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/login")
}

// loginErrorMessage keeps upstream messages (wrong password and friends) and
// hides internal ones.
func loginErrorMessage(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case domain.CodeUpstream, domain.CodeValidation, domain.CodeUnauthorized:
			return appErr.Message
		}
	}
	return "Login failed, please try again"
}
