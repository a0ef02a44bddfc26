package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// Session owns one invoice draft for the duration of an editing
// session. A session has a single interactive owner; the store mutex
// only guards the map and flag bookkeeping, not concurrent editors.
type Session struct {
	ID                string              `json:"id"`
	Draft             entity.InvoiceDraft `json:"draft"`
	Dirty             bool                `json:"dirty"`
	CorrectionPending bool                `json:"correction_pending"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// CustomerPatch carries partial customer updates; nil fields are untouched
type CustomerPatch struct {
	Name    *string   `json:"name"`
	Emails  *[]string `json:"emails"`
	Address *string   `json:"address"`
	ABN     *string   `json:"abn"`
}

// MetaPatch carries partial invoice header updates; nil fields are untouched
type MetaPatch struct {
	InvoiceDate      *string `json:"invoice_date"`
	DueDate          *string `json:"due_date"`
	JobAddress       *string `json:"job_address"`
	GSTEnabled       *bool   `json:"gst_enabled"`
	PricesIncludeGST *bool   `json:"prices_include_gst"`
}

// Store holds the in-memory draft sessions. Drafts live here until the
// user saves or abandons them; nothing is persisted from this store.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewStore creates an empty session store
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Create registers a new session owning the given draft and returns it
func (s *Store) Create(d entity.InvoiceDraft) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Draft:     d.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess

	s.logger.Debug("Draft session created", zap.String("session_id", sess.ID))
	return snapshot(sess)
}

// Get returns a copy of the session, or ErrSessionNotFound
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// Clear discards the session. Clearing an unknown session is a no-op,
// matching a user abandoning an already gone draft.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	s.logger.Debug("Draft session cleared", zap.String("session_id", id))
}

// UpdateCustomer replaces the customer sub-object with the patch applied
func (s *Store) UpdateCustomer(id string, patch CustomerPatch) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		customer := d.Customer
		if patch.Name != nil {
			customer.Name = *patch.Name
		}
		if patch.Emails != nil {
			customer.Emails = append([]string(nil), (*patch.Emails)...)
		}
		if patch.Address != nil {
			customer.Address = *patch.Address
		}
		if patch.ABN != nil {
			customer.ABN = *patch.ABN
		}
		d.Customer = customer
	})
}

// UpdateMeta replaces the invoice header with the patch applied
func (s *Store) UpdateMeta(id string, patch MetaPatch) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		meta := d.Meta
		if patch.InvoiceDate != nil {
			meta.InvoiceDate = *patch.InvoiceDate
		}
		if patch.DueDate != nil {
			meta.DueDate = *patch.DueDate
		}
		if patch.JobAddress != nil {
			meta.JobAddress = *patch.JobAddress
		}
		if patch.GSTEnabled != nil {
			meta.GSTEnabled = *patch.GSTEnabled
		}
		if patch.PricesIncludeGST != nil {
			meta.PricesIncludeGST = *patch.PricesIncludeGST
		}
		d.Meta = meta
	})
}

// ReplaceLineItems swaps the whole item list
func (s *Store) ReplaceLineItems(id string, items []entity.LineItem) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		d.LineItems = ClassifyItems(items)
	})
}

// SetNotes replaces the draft notes
func (s *Store) SetNotes(id, notes string) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		d.Notes = notes
	})
}

// AddLineItem appends the default empty item (1 ea, unpriced labour)
func (s *Store) AddLineItem(id string) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		d.LineItems = append(d.LineItems, entity.NewLineItem())
	})
}

// RemoveLineItem removes the item at the given position. An
// out-of-range index is a silent no-op; the UI cannot meaningfully
// reference a stale index.
func (s *Store) RemoveLineItem(id string, index int) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		if index < 0 || index >= len(d.LineItems) {
			return
		}
		d.LineItems = append(d.LineItems[:index], d.LineItems[index+1:]...)
	})
}

// ToggleItemType flips labour and material on the item at the given
// position, bypassing classification. Explicit user intent wins.
func (s *Store) ToggleItemType(id string, index int) (*Session, error) {
	return s.mutate(id, func(d *entity.InvoiceDraft) {
		if index < 0 || index >= len(d.LineItems) {
			return
		}
		if d.LineItems[index].ItemType == entity.ItemTypeLabour {
			d.LineItems[index].ItemType = entity.ItemTypeMaterial
		} else {
			d.LineItems[index].ItemType = entity.ItemTypeLabour
		}
	})
}

// BeginCorrection marks a correction in flight. A second correction is
// rejected with ErrCorrectionPending until the first completes or aborts.
func (s *Store) BeginCorrection(id string) (entity.InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return entity.InvoiceDraft{}, ErrSessionNotFound
	}
	if sess.CorrectionPending {
		return entity.InvoiceDraft{}, ErrCorrectionPending
	}
	sess.CorrectionPending = true
	return sess.Draft.Clone(), nil
}

// CompleteCorrection installs the corrected draft and clears the pending flag
func (s *Store) CompleteCorrection(id string, corrected entity.InvoiceDraft) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.Draft = corrected.Clone()
	sess.Dirty = true
	sess.CorrectionPending = false
	sess.UpdatedAt = time.Now()
	return snapshot(sess), nil
}

// AbortCorrection clears the pending flag leaving the draft untouched
func (s *Store) AbortCorrection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.CorrectionPending = false
	}
}

// mutate applies fn to the session draft and marks it dirty. A change
// summary describes the last correction only; any manual edit
// supersedes it.
func (s *Store) mutate(id string, fn func(*entity.InvoiceDraft)) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	next := sess.Draft.Clone()
	fn(&next)
	next.ChangesSummary = []string{}
	sess.Draft = next
	sess.Dirty = true
	sess.UpdatedAt = time.Now()

	return snapshot(sess), nil
}

// snapshot copies a session so callers never share the stored draft
func snapshot(sess *Session) *Session {
	out := *sess
	out.Draft = sess.Draft.Clone()
	return &out
}
