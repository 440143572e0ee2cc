package subcaste

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// SubcastePageHandler renders the subcaste screen.
type SubcastePageHandler struct {
	svc *Service
}

// NewPageHandler creates a SubcastePageHandler.
func NewPageHandler(svc *Service) *SubcastePageHandler {
	return &SubcastePageHandler{svc: svc}
}

// ListPage renders the subcaste list.
// GET /subcastes
func (h *SubcastePageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	query := ctrl.Query()
	c.HTML(http.StatusOK, "subcaste/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      query,
		"CasteID":    query.Filters[casteFilterKey],
		"Loading":    ctrl.Loading(),
		"Sidebar":    nav.Sidebar(),
		"Active":     "/subcastes",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
