package shared

// Sort directions accepted by list queries.
const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)

// Pagination bounds a list query. A zero PageSize means "no limit".
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limited reports whether a LIMIT clause applies.
func (p Pagination) Limited() bool {
	return p.PageSize > 0
}
