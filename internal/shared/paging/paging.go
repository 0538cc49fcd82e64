// Package paging implements page-number pagination and ordering for list endpoints.
// Pagination is opt-in: it applies only when the request carries a size parameter.
package paging

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidPage     = errors.New("invalid page")
	ErrInvalidOrdering = errors.New("invalid ordering")
)

type Params struct {
	Page int
	Size int
}

func (p Params) Limit() int  { return p.Size }
func (p Params) Offset() int { return (p.Page - 1) * p.Size }

// OutOfRange reports whether the requested page lies past the last one.
func (p Params) OutOfRange(total int) bool {
	return p.Page > 1 && p.Offset() >= total
}

// FromQuery reads page and size from the query string. The bool result is false
// when the request did not ask for pagination.
func FromQuery(c *fiber.Ctx) (Params, bool, error) {
	rawSize := c.Query("size")
	if rawSize == "" {
		return Params{}, false, nil
	}
	size, err := strconv.Atoi(rawSize)
	if err != nil || size < 1 {
		return Params{}, false, ErrInvalidPage
	}

	page := 1
	if rawPage := c.Query("page"); rawPage != "" {
		page, err = strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return Params{}, false, ErrInvalidPage
		}
	}
	return Params{Page: page, Size: size}, true, nil
}

type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// New wraps results in a page envelope with next/previous links relative to the request URL.
func New[T any](c *fiber.Ctx, p Params, total int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: total, Results: results}
	if p.Page*p.Size < total {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *fiber.Ctx, page int) string {
	values := url.Values{}
	for k, v := range c.Queries() {
		values.Set(k, v)
	}
	values.Set("page", strconv.Itoa(page))
	return c.BaseURL() + c.Path() + "?" + values.Encode()
}

// Order translates an ordering parameter such as "-created_at" into an ORDER BY
// expression. allowed maps public field names to SQL columns.
func Order(raw string, allowed map[string]string, fallback string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	desc := strings.HasPrefix(raw, "-")
	column, ok := allowed[strings.TrimPrefix(raw, "-")]
	if !ok {
		return "", ErrInvalidOrdering
	}
	if desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}
