package repository

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageWindow normalises page/size input into LIMIT and OFFSET values.
func pageWindow(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

func sortClause(sortBy, order, fallback string, allowed map[string]bool) (string, string) {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = fallback
	}
	order = strings.ToUpper(order)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	return sortBy, order
}
