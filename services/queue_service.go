package services

import (
	"strings"
	"sync"
)

// QueueEntry is one waiting user. SocketID routes the queue:matched event
// back to the connection that joined.
type QueueEntry struct {
	UserID       string
	SocketID     string
	HobbyFilters []string // empty means "no filter"
}

// QueueService holds users waiting to be paired. Pure membership structure:
// it never touches persistence or the gateway, so pairing stays the session
// service's call.
type QueueService struct {
	mu      sync.Mutex
	entries map[string]*QueueEntry
	order   []string // userIDs in insertion order, drives the tie-break
}

func NewQueueService() *QueueService {
	return &QueueService{
		entries: make(map[string]*QueueEntry),
	}
}

// Enqueue inserts or replaces the user's entry. Re-joining refreshes the
// socket reference and filters but keeps the original queue position.
func (q *QueueService) Enqueue(userID, socketID string, hobbyFilters []string) {
	filters := make([]string, 0, len(hobbyFilters))
	for _, f := range hobbyFilters {
		if strings.TrimSpace(f) != "" {
			filters = append(filters, f)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if existing, ok := q.entries[userID]; ok {
		existing.SocketID = socketID
		existing.HobbyFilters = filters
		return
	}
	q.entries[userID] = &QueueEntry{UserID: userID, SocketID: socketID, HobbyFilters: filters}
	q.order = append(q.order, userID)
}

// Dequeue removes the user's entry if present
func (q *QueueService) Dequeue(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.remove(userID)
}

// Size returns the number of waiting users
func (q *QueueService) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// TryMatch removes and returns the first compatible pair in insertion order.
// At most one pair per invocation; remaining candidates stay queued.
func (q *QueueService) TryMatch() (QueueEntry, QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := 0; i < len(q.order); i++ {
		for j := i + 1; j < len(q.order); j++ {
			a := q.entries[q.order[i]]
			b := q.entries[q.order[j]]
			if !compatible(a, b) {
				continue
			}
			q.remove(a.UserID)
			q.remove(b.UserID)
			return *a, *b, true
		}
	}
	return QueueEntry{}, QueueEntry{}, false
}

func (q *QueueService) remove(userID string) {
	if _, ok := q.entries[userID]; !ok {
		return
	}
	delete(q.entries, userID)
	for i, id := range q.order {
		if id == userID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

// compatible reports whether two entries may be paired: distinct users, and
// either side has no filter or the filter sets intersect (case-insensitive).
func compatible(a, b *QueueEntry) bool {
	if a.UserID == b.UserID {
		return false
	}
	if len(a.HobbyFilters) == 0 || len(b.HobbyFilters) == 0 {
		return true
	}

	setB := make(map[string]struct{}, len(b.HobbyFilters))
	for _, h := range b.HobbyFilters {
		setB[strings.ToLower(h)] = struct{}{}
	}
	for _, h := range a.HobbyFilters {
		if _, ok := setB[strings.ToLower(h)]; ok {
			return true
		}
	}
	return false
}
