// Package presenter holds the poster hall presenters and the search over them.
package presenter

import (
	"slices"
	"strings"
)

// AllCategories selects every category.
const AllCategories = "All Categories"

// PageSize is the number of presenters shown initially and added per LoadMore.
const PageSize = 6

// Presenter is one poster.
type Presenter struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Institution string `json:"institution"`
	Category    string `json:"category"`
}

// Filter returns the presenters whose title or authors contain query, ignoring case, and whose
// category is category. The query is matched as given, surrounding spaces included.
// AllCategories and "" match every category. The result keeps the order of items and does not
// share its backing array.
func Filter(items []Presenter, query, category string) []Presenter {
	q := strings.ToLower(query)
	out := make([]Presenter, 0, len(items))
	for _, p := range items {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Authors), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct categories of items in first-seen order, preceded by
// AllCategories.
func Categories(items []Presenter) []string {
	out := []string{AllCategories}
	for _, p := range items {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// Pager is the "show more" list of the poster hall. Changing the search term or the category
// resets the number of shown presenters to PageSize.
type Pager struct {
	items    []Presenter
	query    string
	category string
	count    int
	filtered []Presenter
}

// NewPager returns a pager over items showing the first page of all categories.
func NewPager(items []Presenter) *Pager {
	p := &Pager{items: items, category: AllCategories, count: PageSize}
	p.filtered = Filter(items, p.query, p.category)
	return p
}

// SetQuery changes the search term.
func (p *Pager) SetQuery(query string) {
	if query == p.query {
		return
	}
	p.query = query
	p.refilter()
}

// SetCategory changes the category.
func (p *Pager) SetCategory(category string) {
	if category == p.category {
		return
	}
	p.category = category
	p.refilter()
}

func (p *Pager) refilter() {
	p.count = PageSize
	p.filtered = Filter(p.items, p.query, p.category)
}

// LoadMore shows another page.
func (p *Pager) LoadMore() {
	if p.HasMore() {
		p.count += PageSize
	}
}

// Count returns the number of presenters the pager may show.
func (p *Pager) Count() int { return p.count }

// Total returns the number of presenters matching the filters.
func (p *Pager) Total() int { return len(p.filtered) }

// HasMore reports whether matching presenters are hidden.
func (p *Pager) HasMore() bool { return p.count < len(p.filtered) }

// Visible returns the shown presenters.
func (p *Pager) Visible() []Presenter {
	return p.filtered[:min(p.count, len(p.filtered))]
}
