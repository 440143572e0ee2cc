package caste

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// CreateCasteRequest represents the input for adding a caste.
type CreateCasteRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=1,max=100"`
}

// UpdateCasteRequest represents the input for renaming a caste.
type UpdateCasteRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=1,max=100"`
}

// SearchRequest carries one keystroke's worth of search text.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// PageChangeRequest selects a page.
type PageChangeRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// StateResponse is the screen snapshot the front end renders from.
type StateResponse struct {
	Collection domain.PagedCollection[domain.Caste] `json:"collection"`
	Query      domain.ListQuery                     `json:"query"`
	Loading    bool                                 `json:"loading"`
	State      listctrl.State                       `json:"state"`
}
