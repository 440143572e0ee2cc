package audit

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// AuditHandler handles the audit trail JSON API. Unlike the backed screens
// it reads from the local store, so it pages with query parameters rather
// than a list controller.
type AuditHandler struct {
	log domain.AuditLog
}

// NewHandler creates an AuditHandler.
func NewHandler(log domain.AuditLog) *AuditHandler {
	return &AuditHandler{log: log}
}

// List handles GET /api/v1/audit.
// Supports ?page=, ?page_size=, ?sort= and field filters
// (admin_email, entity, action, record_id).
func (h *AuditHandler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	page, err := h.log.List(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}
