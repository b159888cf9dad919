package view

import "github.com/niprobin/curated-digging/pkg/entity"

// Page is one window into a filtered sequence.
type Page struct {
	Items         []entity.Entity
	EffectivePage int
	TotalPages    int
}

// Paginate slices items into fixed-size pages and clamps requestedPage
// into the valid range. TotalPages is never below 1, so an empty sequence
// yields page 1 of 1 with no items.
func Paginate(items []entity.Entity, pageSize, requestedPage int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := requestedPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page{Items: items[start:end], EffectivePage: page, TotalPages: totalPages}
}
