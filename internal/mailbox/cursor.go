package mailbox

// LoadState tracks where the active folder stands in its fetch cycle.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateExhausted
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Cursor is the (offset, limit) pair tracking how much of the active
// folder's data has been fetched, plus the load state machine:
//
//	Idle --begin--> Loading --full page--> Idle
//	                Loading --short page--> Exhausted
//
// Exhausted accepts no further loads until Reset (folder/filter change).
type Cursor struct {
	offset int
	limit  int
	state  LoadState
}

// NewCursor creates a cursor at offset 0 with the given page size.
func NewCursor(limit int) *Cursor {
	if limit <= 0 {
		limit = 50
	}
	return &Cursor{limit: limit}
}

// Begin claims the single in-flight load slot. It returns the offset/limit
// to fetch and true, or false when a load is already running or the folder
// is exhausted; callers drop the trigger in that case rather than queue it.
func (c *Cursor) Begin() (offset, limit int, ok bool) {
	if c.state != StateIdle {
		return 0, 0, false
	}
	c.state = StateLoading
	return c.offset, c.limit, true
}

// Complete records a page of pageLen messages. A full page keeps the cursor
// Idle for further loads; a short page exhausts it.
func (c *Cursor) Complete(pageLen int) {
	if c.state != StateLoading {
		return
	}
	c.offset += pageLen
	if pageLen < c.limit {
		c.state = StateExhausted
	} else {
		c.state = StateIdle
	}
}

// Fail releases the in-flight slot without advancing the offset, so the
// user can re-trigger the same fetch.
func (c *Cursor) Fail() {
	if c.state == StateLoading {
		c.state = StateIdle
	}
}

// Reset returns to offset 0 and Idle. Called on folder or filter change.
func (c *Cursor) Reset() {
	c.offset = 0
	c.state = StateIdle
}

// Offset returns the next fetch offset.
func (c *Cursor) Offset() int { return c.offset }

// Limit returns the configured page size.
func (c *Cursor) Limit() int { return c.limit }

// State returns the current load state.
func (c *Cursor) State() LoadState { return c.state }

// HasMore reports whether another load may yield data.
func (c *Cursor) HasMore() bool { return c.state != StateExhausted }
