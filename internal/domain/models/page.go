package models

type JobsPage struct {
	Jobs  []Job
	Total int
	Page  int
	Limit int
}

// TotalPages is computed from the authoritative total, not from the length of the returned page.
func (p JobsPage) TotalPages() int {
	if p.Total <= 0 {
		return 0
	}
	if p.Limit <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Range returns the 1-based positions of the first and last job of the page within the whole result set.
func (p JobsPage) Range() (from, to int) {
	if p.Total == 0 || len(p.Jobs) == 0 {
		return 0, 0
	}
	limit := p.Limit
	if limit <= 0 {
		limit = len(p.Jobs)
	}
	from = (p.Page-1)*limit + 1
	to = min(p.Page*limit, p.Total)
	return from, to
}
