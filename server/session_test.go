package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ChristianF88/crashgrid/heatmap"
)

func newHeatmap() (*heatmap.Heatmap, error) {
	return heatmap.New(heatmap.Options{}), nil
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	st := NewSessionStore(newHeatmap, time.Minute, 10)

	s, err := st.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(s.ID) != 36 {
		t.Errorf("ID %q is not a uuid", s.ID)
	}
	got, ok := st.Get(s.ID)
	if !ok || got != s {
		t.Error("Get() did not return the created session")
	}
	if _, ok := st.Get("nope"); ok {
		t.Error("Get() found an unknown id")
	}
}

func TestSessionStoreFactoryError(t *testing.T) {
	st := NewSessionStore(func() (*heatmap.Heatmap, error) {
		return nil, errors.New("boom")
	}, time.Minute, 10)

	if _, err := st.Create(); err == nil {
		t.Error("expected factory error")
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}

func TestSessionStoreDropOld(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := NewSessionStore(newHeatmap, time.Minute, 10)
	st.clock = func() time.Time { return now }

	old, _ := st.Create()
	now = now.Add(45 * time.Second)
	fresh, _ := st.Create()
	now = now.Add(30 * time.Second)

	if n := st.DropOld(); n != 1 {
		t.Errorf("DropOld() = %d, want 1", n)
	}
	if _, ok := st.sessions.Get(old.ID); ok {
		t.Error("idle session survived")
	}
	if _, ok := st.sessions.Get(fresh.ID); !ok {
		t.Error("fresh session dropped")
	}
}

func TestSessionStoreMaxSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := NewSessionStore(newHeatmap, time.Hour, 2)
	st.clock = func() time.Time { return now }

	first, _ := st.Create()
	now = now.Add(time.Second)
	second, _ := st.Create()
	now = now.Add(time.Second)
	st.Get(first.ID) // first is now the most recent
	now = now.Add(time.Second)
	st.Create()

	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
	if _, ok := st.sessions.Get(second.ID); ok {
		t.Error("least recently seen session was kept")
	}
	if _, ok := st.sessions.Get(first.ID); !ok {
		t.Error("recently seen session was evicted")
	}
}

func TestSessionStoreSweepStops(t *testing.T) {
	st := NewSessionStore(newHeatmap, time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		st.Sweep(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sweep() did not stop")
	}
}
