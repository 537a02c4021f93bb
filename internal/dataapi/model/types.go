package model

import (
	"net/url"
	"sort"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/query"
)

// Parameter is a single bound query parameter. Names carry the store's "@" prefix
// and are unique within one logical query.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Parameters []Parameter

// Sorted returns a copy ordered by parameter name. Count cache keys are derived
// from the sorted sequence so that argument ordering never causes a cache miss.
func (p Parameters) Sorted() Parameters {
	sorted := make(Parameters, len(p))
	copy(sorted, p)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

func (p Parameters) Clone() Parameters {
	cloned := make(Parameters, len(p))
	copy(cloned, p)
	return cloned
}

func (p Parameters) Contains(name string) bool {
	for _, parameter := range p {
		if parameter.Name == name {
			return true
		}
	}
	return false
}

// Filter is an opaque query-language clause fragment together with the parameters
// it references. Every name referenced in the clause must appear in Arguments by
// the time the query is issued.
type Filter struct {
	Clause    string
	Arguments Parameters
}

// Request is the parsed form of one incoming data request. It is constructed once
// per request and immutable afterwards.
type Request struct {
	Method     string
	URL        *url.URL
	Filter     Filter
	Ordering   query.Ordering
	Structure  string
	Format     string
	Page       *int
	LatestBy   string
	SeriesDate string
}

// Pagination holds the navigation links emitted alongside paged responses.
// Next and Previous are null at the corresponding end of the page range.
type Pagination struct {
	Current  string  `json:"current"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	First    string  `json:"first"`
	Last     string  `json:"last"`
}

// Response is the JSON envelope returned for GET requests.
type Response struct {
	Length       int           `json:"length"`
	MaxPageLimit int           `json:"maxPageLimit"`
	Data         []interface{} `json:"data"`
	Pagination   *Pagination   `json:"pagination,omitempty"`
}
