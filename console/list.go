package console

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/a-h/qadocs/models"
)

// SearchDebounce is how long the keyword must stay unchanged before it is
// used to filter the list.
const SearchDebounce = 500 * time.Millisecond

type ListState int

const (
	ListIdleEmpty ListState = iota
	ListLoading
	ListLoadedEmpty
	ListLoadedNonEmpty
)

func (s ListState) String() string {
	switch s {
	case ListIdleEmpty:
		return "idle-empty"
	case ListLoading:
		return "loading"
	case ListLoadedEmpty:
		return "loaded-empty"
	case ListLoadedNonEmpty:
		return "loaded-nonempty"
	}
	return fmt.Sprintf("ListState(%d)", int(s))
}

// Fetch is a list request issued by the List. Its Generation must be passed
// back to Resolve.
type Fetch struct {
	Generation uint64
	Params     models.ListParams
}

// ListResult is the outcome of a Fetch.
type ListResult struct {
	Generation uint64
	Page       models.QADocumentPage
	Err        error
}

func (f Fetch) Do(ctx context.Context, api API) ListResult {
	page, err := api.List(ctx, f.Params)
	return ListResult{Generation: f.Generation, Page: page, Err: err}
}

// List is the state of the paginated, searchable document list.
type List struct {
	state      ListState
	page       int
	keyword    string
	input      string
	inputSeq   uint64
	generation uint64
	rows       []models.QADocument
	total      int
	sortAsc    bool
	err        error
}

func NewList() *List {
	return &List{
		state: ListIdleEmpty,
		page:  1,
	}
}

func (l *List) State() ListState { return l.state }
func (l *List) Page() int        { return l.page }

// Keyword is the filter used by the last fetch, not the text being typed.
func (l *List) Keyword() string { return l.keyword }
func (l *List) Input() string   { return l.input }
func (l *List) Total() int      { return l.total }

// Err is the error of the most recent failed fetch. It is cleared when a new
// fetch starts.
func (l *List) Err() error { return l.err }

func (l *List) begin() Fetch {
	l.generation++
	l.state = ListLoading
	l.err = nil
	return Fetch{
		Generation: l.generation,
		Params: models.ListParams{
			Keyword: l.keyword,
			Page:    l.page,
			Limit:   PageSize,
		},
	}
}

// Mount starts the first fetch.
func (l *List) Mount() Fetch {
	return l.begin()
}

// Refresh fetches the current page again, e.g. after a mutation.
func (l *List) Refresh() Fetch {
	return l.begin()
}

// SetPage moves to page p. It returns false when p is out of range or is the
// current page. Moving back is always allowed, so a page left behind by a
// narrower search can still be escaped.
func (l *List) SetPage(p int) (f Fetch, ok bool) {
	if p < 1 || p == l.page {
		return f, false
	}
	if l.state != ListIdleEmpty && p > l.page && p > l.Pages() {
		return f, false
	}
	l.page = p
	return l.begin(), true
}

// Clamp moves to the last page when the loaded page lies past it, e.g. after
// a search reduced the total. It returns false when no fetch is needed.
func (l *List) Clamp() (f Fetch, ok bool) {
	if l.state != ListLoadedNonEmpty || len(l.rows) > 0 || l.page <= l.Pages() {
		return f, false
	}
	l.page = l.Pages()
	return l.begin(), true
}

func (l *List) NextPage() (Fetch, bool) { return l.SetPage(l.page + 1) }
func (l *List) PrevPage() (Fetch, bool) { return l.SetPage(l.page - 1) }

// Type records the search input and returns a sequence number. The caller
// passes it to Settle once SearchDebounce has elapsed.
func (l *List) Type(input string) (seq uint64) {
	l.input = input
	l.inputSeq++
	return l.inputSeq
}

// Settle applies the search input if no keystroke arrived after seq. It
// returns false when the input is stale or unchanged.
func (l *List) Settle(seq uint64) (f Fetch, ok bool) {
	if seq != l.inputSeq || l.input == l.keyword {
		return f, false
	}
	l.keyword = l.input
	return l.begin(), true
}

// Resolve applies the result of a fetch. Results of superseded fetches are
// discarded and false is returned. A failed fetch leaves the list loading.
func (l *List) Resolve(r ListResult) (applied bool) {
	if r.Generation != l.generation {
		return false
	}
	if r.Err != nil {
		l.err = r.Err
		return true
	}
	l.rows = r.Page.Data
	l.total = r.Page.Total
	l.sortAsc = false
	if l.total == 0 && len(l.rows) == 0 {
		l.state = ListLoadedEmpty
	} else {
		l.state = ListLoadedNonEmpty
	}
	return true
}

// ShowPaginator reports whether there is more than one page.
func (l *List) ShowPaginator() bool {
	return l.total > PageSize
}

func (l *List) Pages() int {
	if l.total <= 0 {
		return 1
	}
	return (l.total + PageSize - 1) / PageSize
}

// ToggleSort switches the loaded page between server order and ascending
// upload time. The toggle only reorders the rows held in memory and is reset
// by the next fetch.
func (l *List) ToggleSort() {
	l.sortAsc = !l.sortAsc
}

func (l *List) SortedAscending() bool { return l.sortAsc }

// Rows returns the documents of the loaded page in display order.
func (l *List) Rows() []models.QADocument {
	if !l.sortAsc {
		return l.rows
	}
	sorted := slices.Clone(l.rows)
	slices.SortStableFunc(sorted, func(a, b models.QADocument) int {
		switch {
		case a.CreatedAt < b.CreatedAt:
			return -1
		case a.CreatedAt > b.CreatedAt:
			return 1
		}
		return 0
	})
	return sorted
}
