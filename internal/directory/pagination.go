package directory

import (
	"fmt"

	"github.com/ehr/hms/pkg/pagination"
)

const DefaultPageSize = 10

// PageSizeOptions are the page sizes a directory may be viewed with.
var PageSizeOptions = []int{5, 10, 25, 50}

func ValidPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if n == opt {
			return true
		}
	}
	return false
}

// Pagination describes the footer of a directory page. CurrentPage is
// 0-based; From and To are the 1-based positions of the first and last
// visible rows.
type Pagination struct {
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	Total       int    `json:"total"`
	TotalPages  int    `json:"total_pages"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	Label       string `json:"label"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
}

func Paginate(currentPage, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if currentPage < 0 {
		currentPage = 0
	}
	if total < 0 {
		total = 0
	}

	p := Pagination{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  pagination.TotalPages(total, pageSize),
	}
	if total > 0 {
		p.From = min(currentPage*pageSize+1, total)
		p.To = min((currentPage+1)*pageSize, total)
	}
	p.Label = fmt.Sprintf("%d to %d of %d", p.From, p.To, p.Total)
	window := pagination.FromPage(currentPage, pageSize)
	p.HasPrevious = window.HasPrevious()
	p.HasNext = window.HasNext(total)
	return p
}
