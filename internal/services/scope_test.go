package services

import (
	"sync"
	"testing"
)

func TestScopeTracker(t *testing.T) {
	var tr ScopeTracker
	if tr.Synced("bills:119") {
		t.Fatal("zero tracker reports synced")
	}
	tr.MarkSynced(billScope(119))
	if !tr.Synced("bills:119") || tr.Synced(voteScope(119)) {
		t.Fatal("scopes must be independent")
	}
	tr.Reset()
	if tr.Synced("bills:119") {
		t.Fatal("Reset kept scope")
	}
}

func TestScopeTracker_Concurrent(t *testing.T) {
	tr := NewScopeTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tr.MarkSynced(voteScope(100 + n%5))
			_ = tr.Synced(voteScope(100))
		}(i)
	}
	wg.Wait()
	for c := 100; c < 105; c++ {
		if !tr.Synced(voteScope(c)) {
			t.Fatalf("votes:%d not marked", c)
		}
	}
}
