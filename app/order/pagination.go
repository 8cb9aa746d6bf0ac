package order

import "math"

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPage keeps (page-1)*pageSize inside int for every page size.
	maxPage = math.MaxInt / maxPageSize
)

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// pageBounds normalises the requested page and returns limit and offset.
func pageBounds(page, pageSize int) (int, int, int) {
	page = min(max(page, 1), maxPage)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	return page, pageSize, (page - 1) * pageSize
}

func newPagination(page, pageSize, totalItems int) Pagination {
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: (totalItems + pageSize - 1) / pageSize,
	}
}
