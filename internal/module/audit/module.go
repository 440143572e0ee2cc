package audit

import "github.com/gin-gonic/gin"

// AuditModule implements the app.Module interface for the audit trail screen.
type AuditModule struct {
	handler     *AuditHandler
	pageHandler *AuditPageHandler
}

// NewModule creates an AuditModule. Panics if h or ph is nil.
func NewModule(h *AuditHandler, ph *AuditPageHandler) *AuditModule {
	if h == nil {
		panic("audit.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("audit.NewModule: pageHandler must not be nil")
	}
	return &AuditModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers audit API and page routes.
func (m *AuditModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/audit", m.handler.List)

	pages.GET("/audit", m.pageHandler.ListPage)
}
