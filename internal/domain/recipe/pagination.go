package recipe

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 6
	MaxLimit     = 50
	SearchLimit  = 5
)

// Page is a 1-based page request over the latest public recipes.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads the page and limit query values. Missing, malformed or
// non-positive values fall back to the defaults; limit is capped at MaxLimit.
func ParsePage(pageParam, limitParam string) Page {
	p := Page{Number: DefaultPage, Limit: DefaultLimit}

	if n, err := strconv.Atoi(pageParam); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Skip is page*limit - limit.
func (p Page) Skip() int {
	return p.Number*p.Limit - p.Limit
}

// Pages is ceil(count / limit).
func (p Page) Pages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + p.Limit - 1) / p.Limit
}
