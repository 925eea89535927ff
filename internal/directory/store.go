// Package directory holds the fetched tenant collection and derives
// filtered views for listing. Mutations are synchronous and last-write-wins;
// a concurrent external edit is overwritten by the next full fetch.
package directory

import (
	"strings"
	"sync"
	"time"

	wildcard "github.com/IGLOU-EU/go-wildcard/v2"

	"github.com/nuqta-dev/tenadmin/internal/subscription"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// StatusFilter selects tenants by derived subscription status.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterExpired StatusFilter = "expired"
)

// Query describes a filtered view over the directory.
type Query struct {
	Text   string
	Status StatusFilter
	Now    time.Time
}

// Store is the in-memory tenant directory.
type Store struct {
	mu      sync.RWMutex
	tenants []saas.Tenant
}

// NewStore creates an empty directory.
func NewStore() *Store {
	return &Store{tenants: []saas.Tenant{}}
}

// Replace swaps the collection wholesale. A nil list normalizes to empty.
func (s *Store) Replace(list []saas.Tenant) {
	if list == nil {
		list = []saas.Tenant{}
	}
	s.mu.Lock()
	s.tenants = list
	s.mu.Unlock()
}

// All returns a copy of the collection.
func (s *Store) All() []saas.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]saas.Tenant, len(s.tenants))
	copy(out, s.tenants)
	return out
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tenants)
}

// Get looks a tenant up by id.
func (s *Store) Get(id int) (saas.Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenants {
		if t.ID == id {
			return t, true
		}
	}
	return saas.Tenant{}, false
}

// ApplyCreated appends a freshly created record.
func (s *Store) ApplyCreated(t saas.Tenant) {
	s.mu.Lock()
	s.tenants = append(s.tenants, t)
	s.mu.Unlock()
}

// ApplyUpdated replaces the record with a matching id. It reports whether a
// match was found; an absent id is a no-op.
func (s *Store) ApplyUpdated(t saas.Tenant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == t.ID {
			s.tenants[i] = t
			return true
		}
	}
	return false
}

// ApplyDeleted removes the record with the given id.
func (s *Store) ApplyDeleted(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == id {
			s.tenants = append(s.tenants[:i], s.tenants[i+1:]...)
			return true
		}
	}
	return false
}

// Filter derives a view matching the query: free-text match over bilingual
// names and subdomain (wildcard patterns allowed), and a status filter
// computed from the subscription evaluator.
func (s *Store) Filter(q Query) []saas.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]saas.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		if !matchesText(t, q.Text) {
			continue
		}
		if !matchesStatus(t, q.Status, q.Now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesText(t saas.Tenant, text string) bool {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return true
	}

	candidates := []string{
		strings.ToLower(t.ArabicName),
		strings.ToLower(t.EnglishName),
		strings.ToLower(t.Subdomain),
	}

	if strings.ContainsAny(text, "*?") {
		for _, c := range candidates {
			if wildcard.Match(text, c) {
				return true
			}
		}
		return false
	}

	for _, c := range candidates {
		if strings.Contains(c, text) {
			return true
		}
	}
	return false
}

func matchesStatus(t saas.Tenant, filter StatusFilter, now time.Time) bool {
	if filter == "" || filter == FilterAll {
		return true
	}

	start, end, err := t.SubscriptionWindow()
	if err != nil {
		// Unparseable dates only ever show under "all".
		return false
	}

	status := subscription.Evaluate(now, start, end).Status
	switch filter {
	case FilterExpired:
		return status == subscription.StatusExpired
	case FilterActive:
		return status != subscription.StatusExpired
	default:
		return true
	}
}
