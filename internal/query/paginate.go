package query

// PageRef points at an adjacent page with the same limit.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the next/prev references for the current window.
// Absent references are omitted from the JSON envelope.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes next/prev references for a window over total documents.
// It never fails: a page beyond the last yields no next reference and a prev
// reference derived from plain arithmetic.
func Paginate(total int64, page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	offset := int64(page-1) * int64(limit)

	var p Pagination
	if offset+int64(limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if offset > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}
