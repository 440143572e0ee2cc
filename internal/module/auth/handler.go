package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/pkg"
)

// AuthHandler handles REST API requests for console authentication.
type AuthHandler struct {
	svc        Service
	cookieName string
}

// NewHandler creates an AuthHandler.
func NewHandler(svc Service, cookieName string) *AuthHandler {
	return &AuthHandler{svc: svc, cookieName: cookieName}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	h.setSessionCookie(c, sess.ID, int(time.Until(sess.ExpiresAt).Seconds()))

	pkg.Success(c, LoginResponse{
		AdminName:  sess.AdminName,
		AdminEmail: sess.AdminEmail,
		ExpiresAt:  sess.ExpiresAt.Unix(),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
		if err := h.svc.Logout(c.Request.Context(), id); err != nil {
			pkg.Error(c, err)
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	pkg.Success(c, nil)
}

// setSessionCookie writes the opaque session cookie. HttpOnly keeps scripts
// away from it; SameSite=Lax lets top-level navigation carry it.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := gin.Mode() == gin.ReleaseMode
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
