package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/notify"
)

const sessionContextKey = "console_session"

// AuthOptions controls how unauthenticated requests are rejected.
type AuthOptions struct {
	// RedirectToLogin sends browsers to the login screen instead of
	// returning 401 JSON. Set it on page routes, leave it off on API routes.
	RedirectToLogin bool
	// LoginPath is the redirect target. Empty means "/login".
	LoginPath string
}

// Auth returns a gin middleware that resolves the opaque session cookie
// against the local store. On success the session is stored in gin.Context
// and the request context is enriched with the backend bearer token and the
// session ID, so downstream gateway calls authenticate and notifications
// land in the right session's queue.
//
// Expired or unknown sessions clear the cookie and reject the request.
func Auth(store domain.SessionStore, cookieName string, opts AuthOptions) gin.HandlerFunc {
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			reject(c, opts.RedirectToLogin, loginPath)
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			clearSessionCookie(c, cookieName)
			reject(c, opts.RedirectToLogin, loginPath)
			return
		}

		c.Set(sessionContextKey, sess)

		ctx := gateway.WithToken(c.Request.Context(), sess.Token)
		ctx = notify.WithSessionID(ctx, sess.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentSession returns the session resolved by Auth, or nil.
func CurrentSession(c *gin.Context) *domain.Session {
	if v, exists := c.Get(sessionContextKey); exists {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}

func reject(c *gin.Context, redirect bool, loginPath string) {
	if redirect {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": "authentication required",
		"data":    nil,
	})
}

func clearSessionCookie(c *gin.Context, cookieName string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
