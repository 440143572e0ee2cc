package poll

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// CreatePollRequest represents the input for opening a poll. At least two
// options are required; there is no upper bound the console enforces.
type CreatePollRequest struct {
	Title       string   `json:"title" form:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" form:"description"`
	Options     []string `json:"options" form:"options" binding:"required,min=2,dive,required,min=1"`
	ExpiryDate  string   `json:"expiryDate" form:"expiryDate" binding:"required"`
}

// SearchRequest carries one keystroke's worth of search text.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// PageChangeRequest selects a page.
type PageChangeRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// ToggleRequest flips a poll open or closed.
type ToggleRequest struct {
	IsActive *bool `json:"isActive" form:"isActive" binding:"required"`
}

// StateResponse is the screen snapshot the front end renders from.
type StateResponse struct {
	Collection domain.PagedCollection[domain.Poll] `json:"collection"`
	Query      domain.ListQuery                    `json:"query"`
	Loading    bool                                `json:"loading"`
	State      listctrl.State                      `json:"state"`
}
