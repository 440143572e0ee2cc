package subcaste

import "github.com/gin-gonic/gin"

// SubcasteModule implements the app.Module interface for the subcaste screen.
type SubcasteModule struct {
	handler     *SubcasteHandler
	pageHandler *SubcastePageHandler
}

// NewModule creates a SubcasteModule. Panics if h or ph is nil.
func NewModule(h *SubcasteHandler, ph *SubcastePageHandler) *SubcasteModule {
	if h == nil {
		panic("subcaste.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("subcaste.NewModule: pageHandler must not be nil")
	}
	return &SubcasteModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers subcaste API and page routes.
func (m *SubcasteModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/subcastes", m.handler.State)
	api.POST("/subcastes/search", m.handler.Search)
	api.POST("/subcastes/page", m.handler.Page)
	api.POST("/subcastes/filter", m.handler.Filter)
	api.POST("/subcastes", m.handler.Create)
	api.PUT("/subcastes/:id", m.handler.Update)
	api.DELETE("/subcastes/:id", m.handler.Delete)
	api.GET("/subcastes/export", m.handler.Export)

	pages.GET("/subcastes", m.pageHandler.ListPage)
}
