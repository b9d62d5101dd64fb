package models

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type FilterKey string

const (
	FilterSearch   FilterKey = "search"
	FilterType     FilterKey = "type"
	FilterCategory FilterKey = "category"
	FilterLocation FilterKey = "location"
	FilterRemote   FilterKey = "remote"
)

// Filters holds the active listing criteria. A zero value of any field disables that criterion.
type Filters struct {
	Search   string `json:"search"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Location string `json:"location"`
	Remote   bool   `json:"remote"`
}

// With returns a copy of f with one field replaced. The remote flag is parsed with strconv.ParseBool,
// unparsable input turns it off. Unknown keys return f unchanged.
func (f Filters) With(key FilterKey, value string) Filters {
	switch key {
	case FilterSearch:
		f.Search = value
	case FilterType:
		f.Type = value
	case FilterCategory:
		f.Category = value
	case FilterLocation:
		f.Location = value
	case FilterRemote:
		remote, err := strconv.ParseBool(value)
		f.Remote = err == nil && remote
	}
	return f
}

func (f Filters) Reset() Filters {
	return Filters{}
}

func (f Filters) Active() bool {
	return f != Filters{}
}

// Matches reports whether job passes every criterion except Location, which only the remote listing applies.
func (f Filters) Matches(job Job) bool {
	return f.matchesSearch(job) &&
		(f.Type == "" || string(job.Type) == f.Type) &&
		(f.Category == "" || job.Category == f.Category) &&
		(!f.Remote || job.Type == Remote || containsFold(job.Location, "remote"))
}

func (f Filters) matchesSearch(job Job) bool {
	if f.Search == "" {
		return true
	}
	return lo.SomeBy([]string{job.Title, job.Company, job.Description}, func(field string) bool {
		return containsFold(field, f.Search)
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func ParseFilterKey(s string) (FilterKey, bool) {
	key := FilterKey(strings.ToLower(strings.TrimSpace(s)))
	return key, lo.Contains([]FilterKey{FilterSearch, FilterType, FilterCategory, FilterLocation, FilterRemote}, key)
}
