package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// AuditPageHandler renders the audit trail screen.
type AuditPageHandler struct {
	log domain.AuditLog
}

// NewPageHandler creates an AuditPageHandler.
func NewPageHandler(log domain.AuditLog) *AuditPageHandler {
	return &AuditPageHandler{log: log}
}

// ListPage renders the audit trail.
// GET /audit
func (h *AuditPageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	req := pkg.ParsePageRequest(c)

	page, err := h.log.List(c.Request.Context(), req)
	if err != nil {
		page = &domain.AuditPage{Page: req.Page, PageSize: req.PageSize}
	}

	c.HTML(http.StatusOK, "audit/list.html", gin.H{
		"Admin":     sess,
		"Audit":     page,
		"Request":   req,
		"Sidebar":   nav.Sidebar(),
		"Active":    "/audit",
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}
