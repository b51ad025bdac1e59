package repository

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page.
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}

// OrderClause builds an ORDER BY expression from the whitelisted columns
// map. SortBy values outside the map, including anything attempting SQL
// injection, fall back to the given default ordering.
func (q *ListQuery) OrderClause(columns map[string]string, fallback string) string {
	column, ok := columns[q.SortBy]
	if !ok {
		return fallback
	}
	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}
	return column + " " + dir
}
