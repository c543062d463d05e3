// Package dashboard keeps per-viewer dashboard state: the active query and
// the page the viewer is on.
//
// The query engine and paginator are stateless; this container is where the
// "reset to page 1 when the query changes" rule lives. Entries are kept in a
// bounded LRU so abandoned sessions age out.
package dashboard

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tbourn/contact-dashboard/internal/search"
)

// DefaultSize is the number of viewers remembered when none is configured.
const DefaultSize = 1024

// View is one viewer's dashboard state.
type View struct {
	State search.State
	Page  int
}

// Views maps viewer ids to their View. Safe for concurrent use.
type Views struct {
	mu    sync.Mutex
	cache *lru.Cache[string, View]
}

// NewViews returns a container remembering up to size viewers.
func NewViews(size int) (*Views, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, View](size)
	if err != nil {
		return nil, err
	}
	return &Views{cache: c}, nil
}

// Update records st for viewer and returns the page to show.
//
//   - first visit: the requested page (1 if none)
//   - query changed: page 1, whatever was requested
//   - query unchanged: the requested page, or the remembered one if none
func (v *Views) Update(viewer string, st search.State, requested int) View {
	st = st.Normalized()

	v.mu.Lock()
	defer v.mu.Unlock()

	prev, seen := v.cache.Get(viewer)
	next := View{State: st, Page: 1}
	switch {
	case !seen:
		if requested > 0 {
			next.Page = requested
		}
	case prev.State != st:
		// reset
	case requested > 0:
		next.Page = requested
	default:
		next.Page = prev.Page
	}
	v.cache.Add(viewer, next)
	return next
}

// SetPage stores the clamped page actually shown to viewer.
func (v *Views) SetPage(viewer string, page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cur, ok := v.cache.Peek(viewer); ok {
		cur.Page = page
		v.cache.Add(viewer, cur)
	}
}

// Get returns the remembered view for viewer.
func (v *Views) Get(viewer string) (View, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.Get(viewer)
}

// Forget drops viewer's state.
func (v *Views) Forget(viewer string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache.Remove(viewer)
}

// Len returns the number of remembered viewers.
func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.Len()
}
