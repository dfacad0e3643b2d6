package table

import "github.com/cofre-app/cofre/internal/query"

// Header describes a rendered column header. Target is the list state a
// click navigates to; activating a sort always lands on page 1.
type Header struct {
	Label     string
	Sortable  bool
	Active    bool
	Direction string
	Target    query.ListQuery
}

// SortableHeader builds the header descriptor for a column under the current
// list state. Clicking the active ascending column flips to descending;
// clicking anything else sets ascending on that column.
func SortableHeader(q query.ListQuery, col Column) Header {
	active := q.OrderBy == col.Key
	next := query.Asc
	if active && q.OrderDirection == query.Asc {
		next = query.Desc
	}

	header := Header{
		Label:    col.Label,
		Sortable: col.Sortable,
		Active:   active,
	}
	if active {
		header.Direction = q.OrderDirection
	}
	if col.Sortable {
		header.Target = q.WithSort(col.Key, next)
	}
	return header
}

// Headers renders the header row for a column set.
func Headers(q query.ListQuery, columns []Column) []Header {
	headers := make([]Header, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, SortableHeader(q, col))
	}
	return headers
}
