package jobs

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	maxLimit     = 100
)

type ListParameters struct {
	Page     int
	Limit    int
	Search   string
	Type     string
	Category string
	Location string
}

func (p ListParameters) withDefaults() ListParameters {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p ListParameters) Validate() error {

	p = p.withDefaults()

	if p.Page < 1 {
		return fmt.Errorf("page must be positive")
	}

	if p.Limit < 1 || p.Limit > maxLimit {
		return fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}

	return nil
}

// ToUrlParams encodes the json-server listing query. Page and limit are always present,
// every other criterion only when set.
func (p ListParameters) ToUrlParams() url.Values {

	p = p.withDefaults()

	params := url.Values{}
	params.Add("_page", strconv.Itoa(p.Page))
	params.Add("_limit", strconv.Itoa(p.Limit))

	if p.Search != "" {
		params.Add("q", p.Search)
	}

	if p.Type != "" {
		params.Add("type", p.Type)
	}

	if p.Category != "" {
		params.Add("category", p.Category)
	}

	if p.Location != "" {
		params.Add("location_like", p.Location)
	}

	return params
}
