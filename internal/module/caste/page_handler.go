package caste

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// CastePageHandler renders the caste screen.
type CastePageHandler struct {
	svc *Service
}

// NewPageHandler creates a CastePageHandler.
func NewPageHandler(svc *Service) *CastePageHandler {
	return &CastePageHandler{svc: svc}
}

// ListPage renders the caste list.
// GET /castes
func (h *CastePageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	c.HTML(http.StatusOK, "caste/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      ctrl.Query(),
		"Loading":    ctrl.Loading(),
		"Sidebar":    nav.Sidebar(),
		"Active":     "/castes",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
