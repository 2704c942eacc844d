package services

import (
	"fmt"
	"sync"
)

// ScopeTracker remembers which sync scopes have been backfilled during this
// process. The zero value is ready to use.
type ScopeTracker struct {
	mu     sync.Mutex
	synced map[string]struct{}
}

// NewScopeTracker returns an empty tracker.
func NewScopeTracker() *ScopeTracker { return &ScopeTracker{} }

// Synced reports whether scope was marked.
func (t *ScopeTracker) Synced(scope string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.synced[scope]
	return ok
}

// MarkSynced records scope as synced.
func (t *ScopeTracker) MarkSynced(scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.synced == nil {
		t.synced = make(map[string]struct{})
	}
	t.synced[scope] = struct{}{}
}

// Reset forgets every scope.
func (t *ScopeTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.synced = nil
}

func billScope(congressNum int) string { return fmt.Sprintf("bills:%d", congressNum) }
func voteScope(congressNum int) string { return fmt.Sprintf("votes:%d", congressNum) }
