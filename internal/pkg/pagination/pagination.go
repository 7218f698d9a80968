package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Params is a page request resolved from the "page" and "limit" query parameters.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// FromQuery parses page/limit, falling back to defaultLimit and capping at maxLimit.
func FromQuery(c *gin.Context, defaultLimit, maxLimit int) Params {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

// New builds a page, deriving next/previous links from the request URL.
func New[T any](c *gin.Context, p Params, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	out := Page[T]{Count: total, Results: results}
	if int64(p.Page*p.Limit) < total {
		out.Next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		out.Previous = pageURL(c, p.Page-1)
	}
	return out
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme:   scheme(c),
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func scheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
