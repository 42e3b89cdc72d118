package models

import "math"

// ProductsPerPage is the fixed page size of product listings.
const ProductsPerPage = 5

// Page is one page of products plus the counts needed to navigate the rest.
type Page struct {
	Items       []Product
	Total       int64
	CurrentPage int
	PerPage     int
}

// NewPage normalizes the page number and fills in the page size.
func NewPage(items []Product, total int64, page, perPage int) *Page {
	if items == nil {
		items = []Product{}
	}
	return &Page{
		Items:       items,
		Total:       total,
		CurrentPage: NormalizePage(page),
		PerPage:     perPage,
	}
}

// LastPage is the index of the final page; an empty set still has page 1.
func (p *Page) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	last := int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		return 1
	}
	return last
}

// HasNext reports whether a page follows the current one.
func (p *Page) HasNext() bool {
	return p.CurrentPage < p.LastPage()
}

// HasPrevious reports whether a page precedes the current one.
func (p *Page) HasPrevious() bool {
	return p.CurrentPage > 1
}

// Offset is the number of rows to skip to reach page. Pages too far out to
// express as an offset map to math.MaxInt, which is past any real total.
func Offset(page, perPage int) int {
	page = NormalizePage(page)
	if perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// NormalizePage maps any page number below 1 to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
