package job

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// JobPageHandler renders the job portal screen.
type JobPageHandler struct {
	svc *Service
}

// NewPageHandler creates a JobPageHandler.
func NewPageHandler(svc *Service) *JobPageHandler {
	return &JobPageHandler{svc: svc}
}

// ListPage renders the job list.
// GET /jobs
func (h *JobPageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	query := ctrl.Query()
	c.HTML(http.StatusOK, "job/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      query,
		"IsActive":   query.Filters[activeFilterKey],
		"Loading":    ctrl.Loading(),
		"Sidebar":    nav.Sidebar(),
		"Active":     "/jobs",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
