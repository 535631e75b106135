package main

type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionLoading   SessionState = "loading"
	SessionPopulated SessionState = "populated"
	SessionExhausted SessionState = "exhausted"
	SessionErrored   SessionState = "errored"
)

type LayoutMode string

const (
	LayoutSwiper  LayoutMode = "swiper"
	LayoutCatalog LayoutMode = "catalog"
)

const (
	visibleWindow   = 10
	windowThreshold = 3
)

// FeedSession owns the working set of content for one screen. Every filter
// change is a full reload: the working set is replaced wholesale, never
// merged. Fetches are tagged with a generation so that a response from a
// superseded fetch is discarded instead of overwriting a newer one.
type FeedSession struct {
	state      SessionState
	items      []ContentItem
	totalCount int
	errMessage string
	layout     LayoutMode
	generation int
	visible    int
}

func NewFeedSession() *FeedSession {
	return &FeedSession{state: SessionIdle, layout: LayoutSwiper}
}

// Begin moves the session to Loading and returns the generation tag the
// eventual Complete call must present.
func (s *FeedSession) Begin() int {
	s.generation++
	s.state = SessionLoading
	s.errMessage = ""
	return s.generation
}

// Complete applies a fetch outcome. A stale generation is ignored and the
// method reports false. On error the prior working set is kept.
func (s *FeedSession) Complete(generation int, items []ContentItem, err error) bool {
	if generation != s.generation {
		return false
	}
	if err != nil {
		s.state = SessionErrored
		s.errMessage = err.Error()
		return true
	}
	if len(items) == 0 {
		s.state = SessionExhausted
		s.items = nil
		s.visible = 0
		return true
	}
	s.state = SessionPopulated
	s.items = items
	s.visible = visibleWindow
	if s.visible > len(items) {
		s.visible = len(items)
	}
	return true
}

func (s *FeedSession) State() SessionState { return s.state }

func (s *FeedSession) Loading() bool { return s.state == SessionLoading }

func (s *FeedSession) Exhausted() bool { return s.state == SessionExhausted }

func (s *FeedSession) ErrorMessage() string { return s.errMessage }

func (s *FeedSession) Items() []ContentItem { return s.items }

func (s *FeedSession) Len() int { return len(s.items) }

func (s *FeedSession) TotalCount() int { return s.totalCount }

func (s *FeedSession) SetTotalCount(count int) { s.totalCount = count }

// SetExhausted is driven by the swiper when the user runs past the last
// card; it does not touch the working set.
func (s *FeedSession) SetExhausted(exhausted bool) {
	if exhausted {
		s.state = SessionExhausted
		return
	}
	if len(s.items) > 0 {
		s.state = SessionPopulated
	} else if s.state == SessionExhausted {
		s.state = SessionIdle
	}
}

// Visible returns the windowed slice handed to the renderer. The window is a
// rendering bound, not a network paging contract: the full fetch result stays
// in the session.
func (s *FeedSession) Visible() []ContentItem {
	if s.visible > len(s.items) {
		return s.items
	}
	return s.items[:s.visible]
}

// ExtendWindow grows the visible window once the cursor nears its end.
func (s *FeedSession) ExtendWindow(index int) {
	if index < s.visible-windowThreshold {
		return
	}
	s.visible += visibleWindow
	if s.visible > len(s.items) {
		s.visible = len(s.items)
	}
}

func (s *FeedSession) Layout() LayoutMode { return s.layout }

// SetLayout switches presentation only; it never triggers a fetch.
func (s *FeedSession) SetLayout(layout LayoutMode) {
	if layout != LayoutSwiper && layout != LayoutCatalog {
		return
	}
	s.layout = layout
}

func (s *FeedSession) ToggleLayout() LayoutMode {
	if s.layout == LayoutSwiper {
		s.layout = LayoutCatalog
	} else {
		s.layout = LayoutSwiper
	}
	return s.layout
}
