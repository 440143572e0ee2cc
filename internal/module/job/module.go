package job

import "github.com/gin-gonic/gin"

// JobModule implements the app.Module interface for the job portal screen.
type JobModule struct {
	handler     *JobHandler
	pageHandler *JobPageHandler
}

// NewModule creates a JobModule. Panics if h or ph is nil.
func NewModule(h *JobHandler, ph *JobPageHandler) *JobModule {
	if h == nil {
		panic("job.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("job.NewModule: pageHandler must not be nil")
	}
	return &JobModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers job API and page routes.
func (m *JobModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/jobs", m.handler.State)
	api.POST("/jobs/search", m.handler.Search)
	api.POST("/jobs/page", m.handler.Page)
	api.POST("/jobs/filter", m.handler.Filter)
	api.POST("/jobs/:id/activate", m.handler.Activate)
	api.POST("/jobs/:id/deactivate", m.handler.Deactivate)
	api.GET("/jobs/export", m.handler.Export)

	pages.GET("/jobs", m.pageHandler.ListPage)
}
