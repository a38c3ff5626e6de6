package pagination

import "math"

// DefaultPageSize is the number of rows shown per dashboard page.
const DefaultPageSize = 6

// Pagination is the query-string shape accepted by list endpoints.
type Pagination struct {
	Page  int    `form:"page,default=1"`
	Query string `form:"query"`
}

// Page is an offset/limit window over an ordered result set.
type Page struct {
	Number int `json:"page"`
	Offset int `json:"-"`
	Limit  int `json:"-"`
}

// PageInfo describes where a returned page sits in the full result.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// Paginate converts a 1-based page number into an offset/limit window.
// Page numbers are capped so that Offset+Limit never overflows an int.
func Paginate(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}
	return Page{
		Number: page,
		Offset: (page - 1) * size,
		Limit:  size,
	}
}

// TotalPages returns ceil(count/size); zero rows yield zero pages.
func TotalPages(count int64, size int) int {
	if count <= 0 {
		return 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return int((count + int64(size) - 1) / int64(size))
}

// BuildPageInfo assembles PageInfo for a page and the unpaged row count.
func BuildPageInfo(page Page, count int64) PageInfo {
	return PageInfo{
		Page:       page.Number,
		PageSize:   page.Limit,
		TotalPages: TotalPages(count, page.Limit),
		TotalCount: count,
	}
}
