package poll

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// PollPageHandler renders the poll screen.
type PollPageHandler struct {
	svc *Service
}

// NewPageHandler creates a PollPageHandler.
func NewPageHandler(svc *Service) *PollPageHandler {
	return &PollPageHandler{svc: svc}
}

// ListPage renders the poll list.
// GET /polls
func (h *PollPageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	c.HTML(http.StatusOK, "poll/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      ctrl.Query(),
		"Loading":    ctrl.Loading(),
		"Sidebar":    nav.Sidebar(),
		"Active":     "/polls",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
