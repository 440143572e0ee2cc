package notification

import "github.com/gin-gonic/gin"

// NotificationModule implements the app.Module interface for the
// notification and confirmation endpoints.
type NotificationModule struct {
	handler *NotificationHandler
}

// NewModule creates a NotificationModule. Panics if h is nil.
func NewModule(h *NotificationHandler) *NotificationModule {
	if h == nil {
		panic("notification.NewModule: handler must not be nil")
	}
	return &NotificationModule{handler: h}
}

// RegisterRoutes registers notification API routes. There is no page;
// the toast and confirm partials are embedded in the layout.
func (m *NotificationModule) RegisterRoutes(api *gin.RouterGroup, _ *gin.RouterGroup) {
	api.GET("/notifications", m.handler.Drain)
	api.GET("/prompts", m.handler.Pending)
	api.POST("/prompts/:id", m.handler.Resolve)
	api.GET("/ws", m.handler.Socket)
}
