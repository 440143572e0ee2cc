package gateway

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

// Ledger is the typed gateway for the association's finance endpoints. The
// ledger is append-only: entries are added, never edited or deleted, and the
// server owns every balance computation.
type Ledger struct {
	client *Client
}

// NewLedger creates a Ledger over the given client.
func NewLedger(client *Client) *Ledger {
	return &Ledger{client: client}
}

// Transactions fetches one page of ledger entries matching the query.
func (l *Ledger) Transactions(ctx context.Context, q domain.ListQuery) (*domain.PagedCollection[domain.Transaction], error) {
	var page domain.PagedCollection[domain.Transaction]
	err := l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionList,
		body:     q.Body(),
		fallback: "No transactions found",
		severity: notify.SeverityWarning,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SetOpeningBalance records the ledger's opening balance.
func (l *Ledger) SetOpeningBalance(ctx context.Context, amount decimal.Decimal) error {
	return l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionSetOpening,
		body:     map[string]any{"amount": amount},
		fallback: "Failed to set opening balance",
	}, nil)
}

// AddIncome appends an income entry.
func (l *Ledger) AddIncome(ctx context.Context, amount decimal.Decimal, description string) error {
	return l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionAddIncome,
		body:     map[string]any{"amount": amount, "description": description},
		fallback: "Failed to add income",
	}, nil)
}

// AddExpense appends an expense entry.
func (l *Ledger) AddExpense(ctx context.Context, amount decimal.Decimal, description string) error {
	return l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionAddExpense,
		body:     map[string]any{"amount": amount, "description": description},
		fallback: "Failed to add expense",
	}, nil)
}

// Balance fetches the current and opening balances.
func (l *Ledger) Balance(ctx context.Context) (*domain.LedgerSummary, error) {
	var summary domain.LedgerSummary
	err := l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionFetchBalance,
		body:     map[string]any{},
		fallback: "Failed to fetch balance",
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Statement fetches every ledger entry with its running balance, for export.
func (l *Ledger) Statement(ctx context.Context) ([]domain.LedgerLine, error) {
	var lines []domain.LedgerLine
	err := l.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     EndpointTransactionAllWithBalance,
		body:     map[string]any{},
		fallback: "Failed to fetch the statement",
	}, &lines)
	if err != nil {
		return nil, err
	}
	return lines, nil
}
