// Package pagination reads limit/offset query parameters and shapes list responses.
package pagination

import (
	"strconv"

	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Limit  int
	Offset int
}

// Page is the list envelope: total matches plus the requested slice.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Results []T   `json:"results"`
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Count: total, Limit: p.Limit, Offset: p.Offset, Results: items}
}

// FromQuery parses ?limit=&offset=. Limits above MaxLimit are clamped.
func FromQuery(c *gin.Context) (Params, error) {
	p := Params{Limit: DefaultLimit}
	errs := validator.Errors{}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs.Add("limit", "A positive integer is required.")
		} else {
			p.Limit = min(n, MaxLimit)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs.Add("offset", "A non-negative integer is required.")
		} else {
			p.Offset = n
		}
	}
	return p, errs.Err()
}
