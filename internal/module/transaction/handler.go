package transaction

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// TransactionHandler handles the ledger screen's JSON API.
type TransactionHandler struct {
	svc *Service
}

// NewHandler creates a TransactionHandler.
func NewHandler(svc *Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) controller(c *gin.Context) *listctrl.Controller[domain.Transaction] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

// snapshot assembles the screen state. The balance header is fetched fresh;
// a header failure leaves Summary nil rather than failing the snapshot.
func (h *TransactionHandler) snapshot(c *gin.Context, ctrl *listctrl.Controller[domain.Transaction]) StateResponse {
	summary, err := h.svc.Balance(c.Request.Context())
	if err != nil {
		summary = nil
	}
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
		Summary:    summary,
	}
}

// State handles GET /api/v1/transactions.
func (h *TransactionHandler) State(c *gin.Context) {
	ctrl := h.controller(c)
	pkg.Success(c, h.snapshot(c, ctrl))
}

// Search handles POST /api/v1/transactions/search.
func (h *TransactionHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, h.snapshot(c, ctrl))
}

// Page handles POST /api/v1/transactions/page.
func (h *TransactionHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, h.snapshot(c, ctrl))
}

// Filter handles POST /api/v1/transactions/filter.
func (h *TransactionHandler) Filter(c *gin.Context) {
	var req FilterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	h.controller(c)
	h.svc.FilterByType(c.Request.Context(), sess.ID, req.Type)
	pkg.Success(c, h.snapshot(c, h.svc.Controller(sess.ID)))
}

// SetOpening handles POST /api/v1/transactions/opening.
func (h *TransactionHandler) SetOpening(c *gin.Context) {
	h.appendEntry(c, func(sess *domain.Session, amount decimal.Decimal, _ string) error {
		return h.svc.SetOpeningBalance(c.Request.Context(), sess, amount)
	})
}

// AddIncome handles POST /api/v1/transactions/income.
func (h *TransactionHandler) AddIncome(c *gin.Context) {
	h.appendEntry(c, func(sess *domain.Session, amount decimal.Decimal, description string) error {
		return h.svc.AddIncome(c.Request.Context(), sess, amount, description)
	})
}

// AddExpense handles POST /api/v1/transactions/expense.
func (h *TransactionHandler) AddExpense(c *gin.Context) {
	h.appendEntry(c, func(sess *domain.Session, amount decimal.Decimal, description string) error {
		return h.svc.AddExpense(c.Request.Context(), sess, amount, description)
	})
}

func (h *TransactionHandler) appendEntry(c *gin.Context, op func(sess *domain.Session, amount decimal.Decimal, description string) error) {
	var req AmountRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "amount must be a decimal number", err))
		return
	}
	if amount.IsNegative() {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "amount must not be negative", nil))
		return
	}

	sess := middleware.CurrentSession(c)
	if err := op(sess, amount, req.Description); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.snapshot(c, h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/transactions/export?format=csv|xlsx. Unlike
// the other screens this exports the full statement with running balances,
// not just the current page.
func (h *TransactionHandler) Export(c *gin.Context) {
	lines, err := h.svc.Statement(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	sheet := export.Sheet{
		Name:    "Ledger",
		Headers: []string{"ID", "Type", "Amount", "Description", "Balance", "Created At"},
	}
	for _, line := range lines {
		sheet.Rows = append(sheet.Rows, []string{
			line.ID,
			line.Type,
			line.Amount.String(),
			line.Description,
			line.Balance.String(),
			line.CreatedAt,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("ledger"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
