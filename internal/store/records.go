package store

import (
	"strings"
	"sync"

	"github.com/sadopc/studylog/internal/kv"
)

// RecordStore is CRUD over the record collection, newest first.
type RecordStore struct {
	mu   sync.Mutex
	sub  kv.Substrate
	opts options
}

func NewRecordStore(sub kv.Substrate, opts ...Option) *RecordStore {
	return &RecordStore{sub: sub, opts: buildOptions(opts)}
}

// List returns every record, most recently added first. A missing or
// unreadable collection yields nil.
func (s *RecordStore) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *RecordStore) load() []Record {
	return loadInto[[]Record](s.opts, s.sub, recordsKey)
}

func (s *RecordStore) loadForUpdate() ([]Record, bool) {
	return loadForUpdate[[]Record](s.opts, s.sub, recordsKey)
}

// Add validates in, assigns a fresh ID and prepends the record. When the
// collection cannot be read the record is returned but not written.
func (s *RecordStore) Add(in NewRecord) (Record, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Memo = strings.TrimSpace(in.Memo)
	if err := check(in); err != nil {
		return Record{}, err
	}
	if in.StartedAt.IsZero() {
		in.StartedAt = s.opts.now()
	}

	r := Record{
		ID:              s.opts.newID(),
		Subject:         in.Subject,
		StartedAt:       in.StartedAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Memo:            in.Memo,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.loadForUpdate()
	if !ok {
		return r, nil
	}
	s.opts.persist(s.sub, recordsKey, append([]Record{r}, records...))
	return r, nil
}

// Remove deletes the record with id. Unknown ids are ignored.
func (s *RecordStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.loadForUpdate()
	if !ok {
		return
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.opts.persist(s.sub, recordsKey, kept)
}

// Update replaces every field of the record with r.ID. Unknown ids are ignored.
func (s *RecordStore) Update(r Record) error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Memo = strings.TrimSpace(r.Memo)
	if err := check(r); err != nil {
		return err
	}
	r.StartedAt = r.StartedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.loadForUpdate()
	if !ok {
		return nil
	}
	for i := range records {
		if records[i].ID == r.ID {
			records[i] = r
		}
	}
	s.opts.persist(s.sub, recordsKey, records)
	return nil
}
