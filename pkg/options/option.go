package options

import (
	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// SeeMoreValue is the value carried by the pagination sentinel.
const SeeMoreValue = "seeMore"

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SeeMore returns the sentinel entry in the given locale.
func SeeMore(l locale.Locale) Option {
	return Option{Label: locale.SeeMore.Display(l), Value: SeeMoreValue}
}

// IsSeeMore reports whether o is the pagination sentinel.
func (o Option) IsSeeMore() bool {
	return o.Value == SeeMoreValue
}

// Pagination mirrors the metadata returned by listing endpoints.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Page is one normalised batch of options.
type Page struct {
	Options    []Option   `json:"options"`
	Pagination Pagination `json:"pagination"`
}
