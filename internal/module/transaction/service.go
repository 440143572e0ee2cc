// Package transaction is the console screen for the association's finance
// ledger: an append-only list of opening balance, income, and expense
// entries with server-computed balances.
package transaction

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const (
	screenName    = "transactions"
	typeFilterKey = "type"
)

// Service wires the ledger screen.
type Service struct {
	ledger   *gateway.Ledger
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the ledger screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:   gateway.NewLedger(client),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's ledger list controller.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Transaction] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.ledger.Transactions, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Transaction])
}

// FilterByType narrows the list to one entry type; empty shows all.
func (s *Service) FilterByType(ctx context.Context, sessionID, entryType string) {
	s.Controller(sessionID).SetFilter(ctx, typeFilterKey, entryType)
}

// Balance fetches the balance header. Failures surface as a toast through
// the gateway; the screen renders without the header.
func (s *Service) Balance(ctx context.Context) (*domain.LedgerSummary, error) {
	return s.ledger.Balance(ctx)
}

// Statement fetches the full running-balance statement for export.
func (s *Service) Statement(ctx context.Context) ([]domain.LedgerLine, error) {
	return s.ledger.Statement(ctx)
}

// SetOpeningBalance records the opening balance. It rewrites the ledger's
// baseline, so it confirms first.
func (s *Service) SetOpeningBalance(ctx context.Context, sess *domain.Session, amount decimal.Decimal) error {
	ctrl := s.Controller(sess.ID)
	ran := false
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		ConfirmTitle:   "Set opening balance?",
		ConfirmMessage: "Every balance in the ledger is recomputed from this amount.",
		SuccessMessage: "Opening balance set successfully",
	}, func(ctx context.Context) error {
		ran = true
		return s.ledger.SetOpeningBalance(ctx, amount)
	})
	if ran {
		s.recordAudit(ctx, sess, "set-opening", amount, err)
	}
	return err
}

// AddIncome appends an income entry.
func (s *Service) AddIncome(ctx context.Context, sess *domain.Session, amount decimal.Decimal, description string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Income added successfully",
	}, func(ctx context.Context) error {
		return s.ledger.AddIncome(ctx, amount, description)
	})
	s.recordAudit(ctx, sess, "add-income", amount, err)
	return err
}

// AddExpense appends an expense entry.
func (s *Service) AddExpense(ctx context.Context, sess *domain.Session, amount decimal.Decimal, description string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Expense added successfully",
	}, func(ctx context.Context) error {
		return s.ledger.AddExpense(ctx, amount, description)
	})
	s.recordAudit(ctx, sess, "add-expense", amount, err)
	return err
}

func (s *Service) recordAudit(ctx context.Context, sess *domain.Session, action string, amount decimal.Decimal, opErr error) {
	entry := &domain.AuditEntry{
		AdminEmail: sess.AdminEmail,
		Entity:     "transaction",
		Action:     action,
		Succeeded:  opErr == nil,
		Detail:     "amount=" + amount.String(),
	}
	if opErr != nil {
		entry.Detail = entry.Detail + " error=" + opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "transaction"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
