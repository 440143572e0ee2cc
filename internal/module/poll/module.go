package poll

import "github.com/gin-gonic/gin"

// PollModule implements the app.Module interface for the poll screen.
type PollModule struct {
	handler     *PollHandler
	pageHandler *PollPageHandler
}

// NewModule creates a PollModule. Panics if h or ph is nil.
func NewModule(h *PollHandler, ph *PollPageHandler) *PollModule {
	if h == nil {
		panic("poll.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("poll.NewModule: pageHandler must not be nil")
	}
	return &PollModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers poll API and page routes.
func (m *PollModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/polls", m.handler.State)
	api.POST("/polls/search", m.handler.Search)
	api.POST("/polls/page", m.handler.Page)
	api.POST("/polls", m.handler.Create)
	api.POST("/polls/:id/toggle", m.handler.Toggle)
	api.DELETE("/polls/:id", m.handler.Delete)
	api.GET("/polls/export", m.handler.Export)

	pages.GET("/polls", m.pageHandler.ListPage)
}
