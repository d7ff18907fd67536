package rendezvous

import (
	"slices"
	"sync"
)

// Assigns stable ranks to the current set of worker hosts.
//
// Each time the host set changes, a new round begins: hosts are sorted and
// ranked 0..n-1, and the round counter increments. Workers compare the
// round they joined against the current one to detect membership changes
// and re-initialize their collective communication.
type Tracker struct {
	mu    sync.RWMutex
	round int
	hosts []string       // Sorted current host set.
	ranks map[string]int // Host to rank within the current round.
}

// Creates an empty tracker at round zero.
func NewTracker() *Tracker {
	return &Tracker{ranks: map[string]int{}}
}

// Replaces the host set, starting a new round.
//
// Setting a host set equal to the current one is a no-op: the round does
// not advance and existing ranks stay valid. Order of the input does not
// matter.
func (t *Tracker) SetHosts(hosts []string) {
	sorted := slices.Clone(hosts)
	slices.Sort(sorted)

	t.mu.Lock()
	defer t.mu.Unlock()

	if slices.Equal(sorted, t.hosts) {
		return
	}

	t.hosts = sorted
	t.ranks = make(map[string]int, len(sorted))
	for rank, host := range sorted {
		t.ranks[host] = rank
	}
	t.round++
}

// Returns the current round number.
func (t *Tracker) Round() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.round
}

// Returns the rank of a host in the current round, or -1 if the host is
// not a member.
func (t *Tracker) Rank(host string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rank, ok := t.ranks[host]
	if !ok {
		return -1
	}
	return rank
}

// Returns the number of hosts in the current round.
func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.hosts)
}

// Returns the host holding a rank in the current round, or "" if the rank
// is out of range.
func (t *Tracker) Host(rank int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rank < 0 || rank >= len(t.hosts) {
		return ""
	}
	return t.hosts[rank]
}

// Returns the sorted host set of the current round.
func (t *Tracker) Hosts() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.hosts)
}
