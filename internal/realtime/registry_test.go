package realtime

import (
	"fmt"
	"sync"
	"testing"
)

// fakeConn implements Conn for tests: it records enqueued messages and
// can simulate a full outbound queue.
type fakeConn struct {
	id string

	mu   sync.Mutex
	msgs [][]byte
	full bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	c.msgs = append(c.msgs, data)
	return true
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *fakeConn) setFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

func TestRegistryJoinCreatesRoomLazily(t *testing.T) {
	r := NewRegistry(nil, nil)
	if r.RoomCount() != 0 {
		t.Fatalf("RoomCount() = %d, want 0", r.RoomCount())
	}

	c := newFakeConn("dmcn-a")
	r.Join(c, "doc1")

	if r.RoomCount() != 1 {
		t.Errorf("RoomCount() = %d, want 1", r.RoomCount())
	}
	if r.MemberCount("doc1") != 1 {
		t.Errorf("MemberCount(doc1) = %d, want 1", r.MemberCount("doc1"))
	}

	docID, ok := r.Room(c)
	if !ok || docID != "doc1" {
		t.Errorf("Room() = (%q, %v), want (doc1, true)", docID, ok)
	}
}

func TestRegistryLeavePrunesEmptyRoom(t *testing.T) {
	r := NewRegistry(nil, nil)
	a, b := newFakeConn("dmcn-a"), newFakeConn("dmcn-b")

	r.Join(a, "doc1")
	r.Join(b, "doc1")
	r.Leave(a)

	if r.RoomCount() != 1 {
		t.Errorf("room should survive while b remains, RoomCount() = %d", r.RoomCount())
	}

	r.Leave(b)
	if r.RoomCount() != 0 {
		t.Errorf("empty room should be pruned, RoomCount() = %d", r.RoomCount())
	}
}

func TestRegistryLeaveIdempotent(t *testing.T) {
	r := NewRegistry(nil, nil)
	c := newFakeConn("dmcn-a")

	// Leave before any join is a no-op.
	r.Leave(c)

	r.Join(c, "doc1")
	r.Leave(c)
	r.Leave(c) // second leave must not panic or alter state

	if _, ok := r.Room(c); ok {
		t.Error("connection should be unjoined after leave")
	}
	if r.RoomCount() != 0 {
		t.Errorf("RoomCount() = %d, want 0", r.RoomCount())
	}
}

func TestRegistryRebindLeavesPriorRoom(t *testing.T) {
	r := NewRegistry(nil, nil)
	c := newFakeConn("dmcn-a")
	peer := newFakeConn("dmcn-b")

	r.Join(c, "doc1")
	r.Join(peer, "doc1")

	// Requesting a second document implicitly leaves the first; a
	// connection may never be a member of two rooms.
	left := r.Join(c, "doc2")
	if left != "doc1" {
		t.Errorf("Join() left = %q, want doc1", left)
	}

	if got := r.MemberCount("doc1"); got != 1 {
		t.Errorf("doc1 members = %d, want 1 (c should be gone)", got)
	}
	if got := r.MemberCount("doc2"); got != 1 {
		t.Errorf("doc2 members = %d, want 1", got)
	}
	if docID, _ := r.Room(c); docID != "doc2" {
		t.Errorf("Room(c) = %q, want doc2", docID)
	}

	// Broadcasts to doc1 must no longer reach c.
	if peers := r.MembersExcept("doc1", peer); len(peers) != 0 {
		t.Errorf("doc1 peers of b = %d, want 0", len(peers))
	}
}

func TestRegistryRejoinSameRoomIsNoop(t *testing.T) {
	r := NewRegistry(nil, nil)
	c := newFakeConn("dmcn-a")

	r.Join(c, "doc1")
	left := r.Join(c, "doc1")

	if left != "" {
		t.Errorf("rejoin left = %q, want empty", left)
	}
	if got := r.MemberCount("doc1"); got != 1 {
		t.Errorf("MemberCount = %d, want 1 (no duplicate membership)", got)
	}
}

func TestRegistryMembersExcept(t *testing.T) {
	r := NewRegistry(nil, nil)
	a, b, c := newFakeConn("dmcn-a"), newFakeConn("dmcn-b"), newFakeConn("dmcn-c")

	r.Join(a, "doc1")
	r.Join(b, "doc1")
	r.Join(c, "doc1")

	peers := r.MembersExcept("doc1", a)
	if len(peers) != 2 {
		t.Fatalf("len(peers) = %d, want 2", len(peers))
	}
	for _, p := range peers {
		if p.ID() == a.ID() {
			t.Error("MembersExcept must exclude the origin connection")
		}
	}

	if got := r.MembersExcept("nosuchroom", a); got != nil {
		t.Errorf("MembersExcept(absent room) = %v, want nil", got)
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("dmcn-%02d", i))
			for j := 0; j < 100; j++ {
				r.Join(c, "doc1")
				r.MembersExcept("doc1", c)
				r.Leave(c)
			}
		}(i)
	}
	wg.Wait()

	if r.RoomCount() != 0 {
		t.Errorf("RoomCount() = %d after all left, want 0", r.RoomCount())
	}
}
