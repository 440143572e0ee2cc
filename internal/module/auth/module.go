package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for console authentication.
type AuthModule struct {
	handler     *AuthHandler
	pageHandler *AuthPageHandler
}

// NewModule creates an AuthModule. Panics if h or ph is nil.
func NewModule(h *AuthHandler, ph *AuthPageHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("auth.NewModule: pageHandler must not be nil")
	}
	return &AuthModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers auth API and page routes. These stay outside the
// session middleware; login is the one door that has to open without a key.
func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	authAPI := api.Group("/auth")
	authAPI.POST("/login", m.handler.Login)
	authAPI.POST("/logout", m.handler.Logout)

	pages.GET("/login", m.pageHandler.LoginPage)
	pages.POST("/login", m.pageHandler.LoginSubmit)
	pages.POST("/logout", m.pageHandler.LogoutSubmit)
}
