package subcaste

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// CreateSubcasteRequest represents the input for adding a subcaste.
type CreateSubcasteRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=1,max=100"`
	CasteID string `json:"casteId" form:"casteId" binding:"required"`
}

// UpdateSubcasteRequest represents the input for editing a subcaste.
type UpdateSubcasteRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=1,max=100"`
	CasteID string `json:"casteId" form:"casteId" binding:"required"`
}

// SearchRequest carries one keystroke's worth of search text.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// PageChangeRequest selects a page.
type PageChangeRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// FilterRequest narrows the list to one parent caste. An empty CasteID
// clears the filter.
type FilterRequest struct {
	CasteID string `json:"casteId" form:"casteId"`
}

// StateResponse is the screen snapshot the front end renders from.
type StateResponse struct {
	Collection domain.PagedCollection[domain.Subcaste] `json:"collection"`
	Query      domain.ListQuery                        `json:"query"`
	Loading    bool                                    `json:"loading"`
	State      listctrl.State                          `json:"state"`
}
