package transaction

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// AmountRequest carries a money amount as a string so no precision is lost
// between the form and the decimal type.
type AmountRequest struct {
	Amount      string `json:"amount" form:"amount" binding:"required"`
	Description string `json:"description" form:"description" binding:"max=500"`
}

// SearchRequest carries one keystroke's worth of search text.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// PageChangeRequest selects a page.
type PageChangeRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// FilterRequest narrows the list by entry type.
type FilterRequest struct {
	Type string `json:"type" form:"type" binding:"omitempty,oneof=opening income expense"`
}

// StateResponse is the screen snapshot the front end renders from, with the
// balance header alongside the list.
type StateResponse struct {
	Collection domain.PagedCollection[domain.Transaction] `json:"collection"`
	Query      domain.ListQuery                           `json:"query"`
	Loading    bool                                       `json:"loading"`
	State      listctrl.State                             `json:"state"`
	Summary    *domain.LedgerSummary                      `json:"summary,omitempty"`
}
