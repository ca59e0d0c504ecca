package mailbox

import (
	"time"

	"github.com/acastano/inboxtui/internal/models"
)

// Model is the single authoritative client-side state of the mailbox: the
// in-memory message buffer, the active folder, the pagination cursor and
// the per-message revision counters guarding optimistic updates.
//
// The model is not synchronized; it is owned by the UI event loop and must
// only be touched from there. Network completions hand their results back
// to that loop before calling into the model.
type Model struct {
	self   string
	folder Folder
	cursor *Cursor

	messages  []models.Message
	index     map[string]int    // message ID -> position in messages
	revisions map[string]uint64 // message ID -> local revision
	inflight  map[string]int    // message ID -> outstanding patches
	gen       uint64            // buffer generation, bumped by Clear
}

// NewModel creates a mailbox model for the given identity and page size,
// starting on the all folder.
func NewModel(self string, pageSize int) *Model {
	return &Model{
		self:      self,
		folder:    FolderAll,
		cursor:    NewCursor(pageSize),
		index:     make(map[string]int),
		revisions: make(map[string]uint64),
		inflight:  make(map[string]int),
	}
}

// Self returns the dashboard identity the model filters the sent folder by.
func (m *Model) Self() string { return m.self }

// Folder returns the active folder.
func (m *Model) Folder() Folder { return m.folder }

// SetFolder switches the active folder. Switching (even to the same folder
// via an explicit refresh) resets the cursor to offset 0 and clears the
// buffer before the first fetch for the new folder.
func (m *Model) SetFolder(f Folder) {
	if !ValidFolder(f) {
		f = FolderAll
	}
	m.folder = f
	m.Clear()
}

// Clear drops the buffer and resets pagination, keeping the active folder.
// It also starts a new buffer generation, so page loads begun before the
// clear are dropped when they land.
func (m *Model) Clear() {
	m.cursor.Reset()
	m.messages = nil
	m.index = make(map[string]int)
	m.revisions = make(map[string]uint64)
	m.inflight = make(map[string]int)
	m.gen++
}

// Seed fills an empty buffer without touching the cursor, for warm starts
// from a cached snapshot. The next load still fetches from offset 0 and
// refreshes the seeded entries in place.
func (m *Model) Seed(msgs []models.Message) {
	if len(m.messages) > 0 {
		return
	}
	for _, msg := range msgs {
		if _, ok := m.index[msg.ID]; ok {
			continue
		}
		m.index[msg.ID] = len(m.messages)
		m.messages = append(m.messages, msg)
	}
}

// BeginLoad claims the load slot for the active folder, see Cursor.Begin.
// The returned generation must be presented back by the completion; a
// response carrying a generation older than the buffer's is stale (the
// folder changed while it was in flight) and is dropped.
func (m *Model) BeginLoad() (offset, limit int, gen uint64, ok bool) {
	offset, limit, ok = m.cursor.Begin()
	return offset, limit, m.gen, ok
}

// FailLoad releases the load slot after a failed fetch. Stale failures are
// ignored; the cursor already belongs to a newer generation.
func (m *Model) FailLoad(gen uint64) {
	if gen != m.gen {
		return
	}
	m.cursor.Fail()
}

// LoadState exposes the cursor state for the loading affordance.
func (m *Model) LoadState() LoadState { return m.cursor.State() }

// HasMore reports whether scrolling near the bottom should fetch again.
func (m *Model) HasMore() bool { return m.cursor.HasMore() }

// ApplyPage appends a fetched page to the buffer and advances the cursor.
// A page fetched for an earlier generation is dropped whole: its messages
// belong to a folder the user has navigated away from. Messages already
// present (e.g. an optimistically prepended send echoed back by the server)
// keep their buffer position; their stored copy is refreshed only when no
// patch is outstanding for them. Reports whether the page was applied.
func (m *Model) ApplyPage(gen uint64, page []models.Message) bool {
	if gen != m.gen {
		return false
	}
	for _, msg := range page {
		if pos, ok := m.index[msg.ID]; ok {
			if m.inflight[msg.ID] == 0 {
				m.messages[pos] = msg
			}
			continue
		}
		m.index[msg.ID] = len(m.messages)
		m.messages = append(m.messages, msg)
	}
	m.cursor.Complete(len(page))
	return true
}

// Prepend inserts a newly created message at the head of the buffer
// (optimistic compose path).
func (m *Model) Prepend(msg models.Message) {
	if _, ok := m.index[msg.ID]; ok {
		return
	}
	m.messages = append([]models.Message{msg}, m.messages...)
	for id, pos := range m.index {
		m.index[id] = pos + 1
	}
	m.index[msg.ID] = 0
}

// Get returns a copy of the buffered message with the given ID.
func (m *Model) Get(id string) (models.Message, bool) {
	pos, ok := m.index[id]
	if !ok {
		return models.Message{}, false
	}
	return m.messages[pos], true
}

// Len returns the buffer size across all folders' membership.
func (m *Model) Len() int { return len(m.messages) }

// Visible returns the active folder's projection of the buffer, preserving
// buffer order (newest first as provided by the store).
func (m *Model) Visible() []models.Message {
	return SelectFolder(m.messages, m.folder, m.self)
}

// patchKind discriminates what a patch must restore on rollback.
type patchKind int

const (
	patchStatus patchKind = iota
	patchEdit
)

// Patch records one optimistic local mutation awaiting server
// confirmation. The revision captured at creation decides whether the
// reconciling response is still current when it arrives.
type Patch struct {
	ID       string
	Revision uint64

	kind           patchKind
	prevStatus     models.Status
	prevContent    string
	prevSubject    string
	prevEdited     bool
	prevLastEdited string
}

// BeginStatusChange applies newStatus locally and returns the patch to
// reconcile or roll back with. Returns false for unknown IDs.
func (m *Model) BeginStatusChange(id string, newStatus models.Status) (Patch, bool) {
	pos, ok := m.index[id]
	if !ok {
		return Patch{}, false
	}
	m.revisions[id]++
	m.inflight[id]++
	p := Patch{
		ID:         id,
		Revision:   m.revisions[id],
		kind:       patchStatus,
		prevStatus: m.messages[pos].Status,
	}
	m.messages[pos].Status = newStatus
	return p, true
}

// BeginEdit applies a content/subject edit locally and returns its patch.
func (m *Model) BeginEdit(id, newContent, newSubject string) (Patch, bool) {
	pos, ok := m.index[id]
	if !ok {
		return Patch{}, false
	}
	m.revisions[id]++
	m.inflight[id]++
	msg := &m.messages[pos]
	p := Patch{
		ID:             id,
		Revision:       m.revisions[id],
		kind:           patchEdit,
		prevContent:    msg.Content,
		prevSubject:    msg.Subject,
		prevEdited:     msg.Edited,
		prevLastEdited: msg.LastEdited,
	}
	msg.Content = newContent
	if newSubject != "" {
		msg.Subject = newSubject
	}
	msg.Edited = true
	msg.LastEdited = time.Now().UTC().Format(time.RFC3339)
	return p, true
}

// Commit settles a patch whose request succeeded. When the server echoed a
// full document (edit path) it is applied only if no newer local mutation
// raced past this patch; stale echoes are dropped.
func (m *Model) Commit(p Patch, updated *models.Message) {
	m.settle(p.ID)
	pos, ok := m.index[p.ID]
	if !ok {
		return
	}
	if updated != nil && m.revisions[p.ID] == p.Revision {
		m.messages[pos] = *updated
	}
}

// Rollback restores the state a failed patch overwrote, unless a newer
// local mutation has already superseded it.
func (m *Model) Rollback(p Patch) {
	m.settle(p.ID)
	pos, ok := m.index[p.ID]
	if !ok {
		return
	}
	if m.revisions[p.ID] != p.Revision {
		// A later optimistic change owns the message now; reverting would
		// clobber it with even staler state.
		return
	}
	msg := &m.messages[pos]
	switch p.kind {
	case patchStatus:
		msg.Status = p.prevStatus
	case patchEdit:
		msg.Content = p.prevContent
		msg.Subject = p.prevSubject
		msg.Edited = p.prevEdited
		msg.LastEdited = p.prevLastEdited
	}
}

func (m *Model) settle(id string) {
	if m.inflight[id] > 0 {
		m.inflight[id]--
	}
	if m.inflight[id] == 0 {
		delete(m.inflight, id)
	}
}
