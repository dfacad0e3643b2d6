// Package query converts list-view state to URL query strings and back.
// Encoded URLs omit every field still at its default so shared links stay
// minimal.
package query

import (
	"net/url"
	"strconv"
)

// Sort directions accepted by the upstream API.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Query parameter names shared with the upstream API.
const (
	ParamPage           = "page"
	ParamPageSize       = "page_size"
	ParamOrderBy        = "order_by"
	ParamOrderDirection = "order_direction"
	ParamSearch         = "search"
)

// ListQuery is the state behind a paginated table: current page, page size,
// sort, free-text search and multi-value id filters.
type ListQuery struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDirection string
	Search         string
	Filters        map[string][]string
}

// Codec encodes and decodes ListQuery values for one resource. FilterKeys
// names the repeated filter parameters the resource accepts (status_id,
// category_id, ...).
type Codec struct {
	DefaultPageSize int
	FilterKeys      []string
}

// New returns the default state for this codec.
func (c Codec) New() ListQuery {
	return ListQuery{Page: 1, PageSize: c.DefaultPageSize, Filters: map[string][]string{}}
}

// Decode parses URL query values into a ListQuery. Numeric fields fall back
// to their defaults on junk input. A repeated filter key becomes a list, a
// single occurrence a one-element list, absence an empty list.
func (c Codec) Decode(values url.Values) ListQuery {
	q := c.New()
	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page >= 1 {
		q.Page = page
	}
	if size, err := strconv.Atoi(values.Get(ParamPageSize)); err == nil && size >= 1 {
		q.PageSize = size
	}
	q.OrderBy = values.Get(ParamOrderBy)
	if dir := values.Get(ParamOrderDirection); dir == Asc || dir == Desc {
		q.OrderDirection = dir
	}
	q.Search = values.Get(ParamSearch)
	for _, key := range c.FilterKeys {
		if ids, ok := values[key]; ok && len(ids) > 0 {
			q.Filters[key] = append([]string(nil), ids...)
		}
	}
	return q
}

// Encode serializes the state, dropping defaults: page 1, the default page
// size, empty search, absent sort and empty filter lists.
func (c Codec) Encode(q ListQuery) url.Values {
	values := url.Values{}
	if q.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 && q.PageSize != c.DefaultPageSize {
		values.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	if q.OrderBy != "" {
		values.Set(ParamOrderBy, q.OrderBy)
	}
	if q.OrderDirection != "" {
		values.Set(ParamOrderDirection, q.OrderDirection)
	}
	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}
	for _, key := range c.FilterKeys {
		for _, id := range q.Filters[key] {
			values.Add(key, id)
		}
	}
	return values
}

// RequestValues serializes the full state for an upstream request. Unlike
// Codec.Encode it keeps page and page size explicit so the upstream never
// has to guess defaults.
func (q ListQuery) RequestValues() url.Values {
	values := url.Values{}
	values.Set(ParamPage, strconv.Itoa(q.Page))
	values.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	if q.OrderBy != "" {
		values.Set(ParamOrderBy, q.OrderBy)
	}
	if q.OrderDirection != "" {
		values.Set(ParamOrderDirection, q.OrderDirection)
	}
	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}
	for key, ids := range q.Filters {
		for _, id := range ids {
			values.Add(key, id)
		}
	}
	return values
}

// WithPage moves to another page without touching any other field.
func (q ListQuery) WithPage(page int) ListQuery {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

// WithSort changes the sort and resets to the first page.
func (q ListQuery) WithSort(key, direction string) ListQuery {
	q.OrderBy = key
	q.OrderDirection = direction
	q.Page = 1
	return q
}

// WithSearch changes the search text and resets to the first page.
func (q ListQuery) WithSearch(search string) ListQuery {
	q.Search = search
	q.Page = 1
	return q
}

// WithPageSize changes the page size and resets to the first page.
func (q ListQuery) WithPageSize(size int) ListQuery {
	if size >= 1 {
		q.PageSize = size
	}
	q.Page = 1
	return q
}

// WithFilter replaces one filter's id list and resets to the first page. An
// empty list removes the filter.
func (q ListQuery) WithFilter(key string, ids []string) ListQuery {
	filters := make(map[string][]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if len(ids) == 0 {
		delete(filters, key)
	} else {
		filters[key] = append([]string(nil), ids...)
	}
	q.Filters = filters
	q.Page = 1
	return q
}
