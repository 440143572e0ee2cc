package circular

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// CreateCircularRequest represents the form fields for publishing a
// circular. The attachment rides alongside as a multipart file part.
type CreateCircularRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"required,min=1"`
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
	Collection domain.PagedCollection[domain.Circular] `json:"collection"`
	Query      domain.ListQuery                        `json:"query"`
	Loading    bool                                    `json:"loading"`
	State      listctrl.State                          `json:"state"`
}
