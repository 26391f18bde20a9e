package autotile

import "sync"

// Shared is a rule table used by several tilemaps at once.
//
// Lookups take the read lock; edits take the write lock, so an apply pass
// run inside View never sees a half-finished edit. Revision increases with
// every Edit and lets a tilemap notice that its instance list
// was resolved against an older table.
type Shared struct {
	mu       sync.RWMutex
	cfg      *SpriteConfig
	revision uint64
}

// Share wraps cfg. The caller must stop using cfg directly.
func Share(cfg *SpriteConfig) *Shared {
	return &Shared{cfg: cfg}
}

// View runs fn with the rule table read-locked.
func (s *Shared) View(fn func(cfg *SpriteConfig)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cfg)
}

// ViewRevision is View that also passes the revision fn is looking at.
func (s *Shared) ViewRevision(fn func(cfg *SpriteConfig, revision uint64)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cfg, s.revision)
}

// Edit runs fn with the rule table write-locked, resyncs the index and
// bumps the revision. fn may have changed the table before failing, so
// the revision moves on errors too.
func (s *Shared) Edit(fn func(cfg *SpriteConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.cfg)
	s.cfg.SyncCoordinates()
	s.revision++
	return err
}

// Replace swaps in a whole new table, e.g. after reloading from storage.
func (s *Shared) Replace(cfg *SpriteConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg.SyncCoordinates()
	s.cfg = cfg
	s.revision++
}

// Revision returns the edit counter.
func (s *Shared) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
