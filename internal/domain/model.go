package domain

// ListQuery holds the state of a paginated list request as the management
// API expects it: a free-text search, a 1-based page, a page size, and any
// entity-specific narrow filters. Filters are sent alongside search/page/limit
// in the request body.
type ListQuery struct {
	Search  string            `json:"search"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Filters map[string]string `json:"-"`
}

// DefaultListQuery returns the query every screen starts from.
func DefaultListQuery(limit int) ListQuery {
	if limit < 1 {
		limit = 10
	}
	return ListQuery{Page: 1, Limit: limit}
}

// WithFilter returns a copy of q with the given filter set. An empty value
// removes the filter.
func (q ListQuery) WithFilter(key, value string) ListQuery {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	q.Filters = filters
	return q
}

// Body returns the request body the list endpoint expects. Search, page and
// limit are always present; filters are flattened in beside them.
func (q ListQuery) Body() map[string]any {
	body := map[string]any{
		"search": q.Search,
		"page":   q.Page,
		"limit":  q.Limit,
	}
	for k, v := range q.Filters {
		body[k] = v
	}
	return body
}

// PagedCollection mirrors the paginated payload the management API returns
// for every list endpoint. The console renders it as-is and never recomputes
// totals or page bounds; the server is authoritative.
type PagedCollection[T any] struct {
	Docs          []T  `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int  `json:"limit"`
	Page          int  `json:"page"`
	TotalPages    int  `json:"totalPages"`
	PagingCounter int  `json:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"`
	PrevPage      *int `json:"prevPage"`
	NextPage      *int `json:"nextPage"`
}

// EmptyCollection returns the collection a screen shows before its first
// fetch resolves.
func EmptyCollection[T any](limit int) PagedCollection[T] {
	return PagedCollection[T]{
		Docs:       []T{},
		Limit:      limit,
		Page:       1,
		TotalPages: 1,
	}
}
