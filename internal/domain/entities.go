package domain

import "github.com/shopspring/decimal"

// Records owned by the management API. Every record carries the stable
// string identifier the API uses for update/delete addressing; unknown
// fields the API adds over time are ignored on decode and never blocked.

// Caste is a community caste master record.
type Caste struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// Subcaste is a caste subdivision, parented by a caste.
type Subcaste struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	CasteID   string `json:"casteId"`
	CreatedAt string `json:"createdAt"`
}

// Circular is an announcement with an optional attached document.
type Circular struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
	CreatedAt   string `json:"createdAt"`
}

// Job is a community job posting.
type Job struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

// PollOption is one choice in a poll, with server-computed tallies.
type PollOption struct {
	Text       string  `json:"text"`
	VoteCount  int     `json:"voteCount"`
	Percentage float64 `json:"percentage"`
}

// Poll is a community poll. Vote counts and percentages are computed by the
// management API and shown as-is.
type Poll struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Options     []PollOption `json:"options"`
	TotalVotes  int          `json:"totalVotes"`
	IsActive    bool         `json:"isActive"`
	ExpiryDate  string       `json:"expiryDate"`
	CreatedAt   string       `json:"createdAt"`
}

// Transaction types as the ledger records them.
const (
	TransactionOpening = "opening"
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is one entry in the association's finance ledger. Amounts are
// decimals end to end; the console never does float arithmetic on money.
type Transaction struct {
	ID          string          `json:"_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"createdAt"`
}

// LedgerSummary is the balance header the ledger screen shows alongside the
// transaction list. Both balances are computed server-side.
type LedgerSummary struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// LedgerLine is a transaction with the running balance after it, as the
// statement export endpoint returns it.
type LedgerLine struct {
	Transaction
	Balance decimal.Decimal `json:"balance"`
}
