package circular

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// CircularPageHandler renders the circular screen.
type CircularPageHandler struct {
	svc *Service
}

// NewPageHandler creates a CircularPageHandler.
func NewPageHandler(svc *Service) *CircularPageHandler {
	return &CircularPageHandler{svc: svc}
}

// ListPage renders the circular list.
// GET /circulars
func (h *CircularPageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	c.HTML(http.StatusOK, "circular/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      ctrl.Query(),
		"Loading":    ctrl.Loading(),
		"Sidebar":    nav.Sidebar(),
		"Active":     "/circulars",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
