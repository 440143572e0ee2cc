package circular

import "github.com/gin-gonic/gin"

// CircularModule implements the app.Module interface for the circular screen.
type CircularModule struct {
	handler     *CircularHandler
	pageHandler *CircularPageHandler
}

// NewModule creates a CircularModule. Panics if h or ph is nil.
func NewModule(h *CircularHandler, ph *CircularPageHandler) *CircularModule {
	if h == nil {
		panic("circular.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("circular.NewModule: pageHandler must not be nil")
	}
	return &CircularModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers circular API and page routes.
func (m *CircularModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/circulars", m.handler.State)
	api.POST("/circulars/search", m.handler.Search)
	api.POST("/circulars/page", m.handler.Page)
	api.POST("/circulars", m.handler.Create)
	api.DELETE("/circulars/:id", m.handler.Delete)
	api.GET("/circulars/export", m.handler.Export)

	pages.GET("/circulars", m.pageHandler.ListPage)
}
