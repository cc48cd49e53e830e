// Package pagination computes the page controls shown under a paged listing.
// Page indexes are 0-based, as the backend uses them; labels are 1-based.
package pagination

import (
	"strconv"
	"strings"
)

type Pager struct {
	Current int
	Total   int
}

// New clamps current into [0, total).
func New(current, total int) Pager {
	if total < 0 {
		total = 0
	}
	if current >= total {
		current = total - 1
	}
	if current < 0 {
		current = 0
	}
	return Pager{Current: current, Total: total}
}

// Numbers lists every page index.
func (p Pager) Numbers() []int {
	return p.Window(p.Total)
}

// Window lists at most size page indexes around the current one.
func (p Pager) Window(size int) []int {
	if p.Total == 0 || size <= 0 {
		return nil
	}
	if size > p.Total {
		size = p.Total
	}

	start := p.Current - size/2
	if start < 0 {
		start = 0
	}
	if start+size > p.Total {
		start = p.Total - size
	}

	out := make([]int, size)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func (p Pager) HasPrev() bool { return p.Total > 0 && p.Current > 0 }

func (p Pager) HasNext() bool { return p.Total > 0 && p.Current < p.Total-1 }

// Prev returns the previous index, or the current one on the first page.
func (p Pager) Prev() int {
	if p.HasPrev() {
		return p.Current - 1
	}
	return p.Current
}

// Next returns the next index, or the current one on the last page.
func (p Pager) Next() int {
	if p.HasNext() {
		return p.Current + 1
	}
	return p.Current
}

func Label(i int) string { return strconv.Itoa(i + 1) }

// Render draws the controls as text, e.g. "< 1 [2] 3 >", within size pages.
func (p Pager) Render(size int) string {
	if p.Total == 0 {
		return ""
	}

	var b strings.Builder
	if p.HasPrev() {
		b.WriteString("< ")
	}
	for i, n := range p.Window(size) {
		if i > 0 {
			b.WriteByte(' ')
		}
		if n == p.Current {
			b.WriteString("[" + Label(n) + "]")
		} else {
			b.WriteString(Label(n))
		}
	}
	if p.HasNext() {
		b.WriteString(" >")
	}
	return b.String()
}
