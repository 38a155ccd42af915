// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is the number of rows returned when the client does not
// ask for a size.
const DefaultPageSize = 20

// MaxPageSize caps client-requested sizes.
const MaxPageSize = 100

// Page is a parsed page request (1-based).
type Page struct {
	Number int
	Size   int
}

// Parse reads the "page" and "page_size" query parameters. Missing or
// invalid values fall back to page 1 and the default size; oversized
// requests are clamped, never rejected.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, Size: DefaultPageSize}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Number = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			p.Size = n
		}
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Size) }

// Limit returns the page size as int64 for Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.Size) }

// ApplyToFind sets skip and limit on the find options.
func (p Page) ApplyToFind(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(p.Limit())
}

// Meta is the pagination block included in list responses.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// MetaFor computes the response metadata for a total count.
func (p Page) MetaFor(total int64) Meta {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	if pages < 1 {
		pages = 1
	}
	return Meta{Page: p.Number, PageSize: p.Size, Total: total, TotalPages: pages}
}
