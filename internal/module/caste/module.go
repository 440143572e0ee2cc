package caste

import "github.com/gin-gonic/gin"

// CasteModule implements the app.Module interface for the caste screen.
type CasteModule struct {
	handler     *CasteHandler
	pageHandler *CastePageHandler
}

// NewModule creates a CasteModule. Panics if h or ph is nil.
func NewModule(h *CasteHandler, ph *CastePageHandler) *CasteModule {
	if h == nil {
		panic("caste.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("caste.NewModule: pageHandler must not be nil")
	}
	return &CasteModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers caste API and page routes.
func (m *CasteModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/castes", m.handler.State)
	api.POST("/castes/search", m.handler.Search)
	api.POST("/castes/page", m.handler.Page)
	api.POST("/castes", m.handler.Create)
	api.PUT("/castes/:id", m.handler.Update)
	api.DELETE("/castes/:id", m.handler.Delete)
	api.GET("/castes/export", m.handler.Export)

	pages.GET("/castes", m.pageHandler.ListPage)
}
