package transaction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/nav"
)

// TransactionPageHandler renders the ledger screen.
type TransactionPageHandler struct {
	svc *Service
}

// NewPageHandler creates a TransactionPageHandler.
func NewPageHandler(svc *Service) *TransactionPageHandler {
	return &TransactionPageHandler{svc: svc}
}

// ListPage renders the transaction list with the balance header.
// GET /transactions
func (h *TransactionPageHandler) ListPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}

	summary, err := h.svc.Balance(c.Request.Context())
	if err != nil {
		summary = nil
	}

	c.HTML(http.StatusOK, "transaction/list.html", gin.H{
		"Admin":      sess,
		"Collection": ctrl.Collection(),
		"Query":      ctrl.Query(),
		"Loading":    ctrl.Loading(),
		"Summary":    summary,
		"TypeFilter": ctrl.Query().Filters[typeFilterKey],
		"Sidebar":    nav.Sidebar(),
		"Active":     "/transactions",
		"CSRFToken":  middleware.GetCSRFToken(c),
	})
}
