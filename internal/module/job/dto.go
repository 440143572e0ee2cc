package job

import (
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/listctrl"
)

// SearchRequest carries one keystroke's worth of search text.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// PageChangeRequest selects a page.
type PageChangeRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// FilterRequest narrows the list by active state: "true", "false", or ""
// for all.
type FilterRequest struct {
	IsActive string `json:"isActive" form:"isActive" binding:"omitempty,oneof=true false"`
}

// StateResponse is the screen snapshot the front end renders from.
type StateResponse struct {
	Collection domain.PagedCollection[domain.Job] `json:"collection"`
	Query      domain.ListQuery                   `json:"query"`
	Loading    bool                               `json:"loading"`
	State      listctrl.State                     `json:"state"`
}
