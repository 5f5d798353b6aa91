package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/swingify/server/internal/lib/shot"
)

// ClubObserver is notified after every mutation of the club store
type ClubObserver interface {
	ClubsChanged(clubs []shot.Club)
}

// ClubStore is a thread-safe club registry keyed by case-insensitive club
// name, with change notification fan-out to registered observers. The engine
// only ever reads name + distance; everything else about club management
// lives with the caller.
type ClubStore struct {
	mu        sync.RWMutex
	clubs     map[string]shot.Club
	observers []ClubObserver
}

// NewClubStore creates a club store seeded with the given clubs. Seed
// entries that fail validation are silently dropped.
func NewClubStore(seed []shot.Club) *ClubStore {
	s := &ClubStore{clubs: make(map[string]shot.Club)}
	for _, club := range seed {
		if err := validate(club); err == nil {
			s.clubs[key(club.Name)] = club
		}
	}
	return s
}

// Subscribe registers an observer for change notifications
func (s *ClubStore) Subscribe(observer ClubObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Get looks up a club by name, case-insensitively
func (s *ClubStore) Get(name string) (shot.Club, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	club, ok := s.clubs[key(name)]
	return club, ok
}

// List returns all clubs ordered by carry distance, shortest first
func (s *ClubStore) List() []shot.Club {
	s.mu.RLock()
	clubs := make([]shot.Club, 0, len(s.clubs))
	for _, club := range s.clubs {
		clubs = append(clubs, club)
	}
	s.mu.RUnlock()

	sort.Slice(clubs, func(i, j int) bool {
		if clubs[i].Distance != clubs[j].Distance {
			return clubs[i].Distance < clubs[j].Distance
		}
		return clubs[i].Name < clubs[j].Name
	})
	return clubs
}

// Save inserts or replaces a club, keyed by its case-insensitive name
func (s *ClubStore) Save(club shot.Club) error {
	if err := validate(club); err != nil {
		return err
	}

	s.mu.Lock()
	s.clubs[key(club.Name)] = club
	s.mu.Unlock()

	s.notify()
	return nil
}

// Delete removes a club by name. Deleting an unknown club is an error so
// callers can surface a 404.
func (s *ClubStore) Delete(name string) error {
	s.mu.Lock()
	if _, ok := s.clubs[key(name)]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("club %q not found", name)
	}
	delete(s.clubs, key(name))
	s.mu.Unlock()

	s.notify()
	return nil
}

// notify fans the current club list out to every observer. Called without
// the lock held so observers can call back into the store.
func (s *ClubStore) notify() {
	clubs := s.List()

	s.mu.RLock()
	observers := make([]ClubObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, observer := range observers {
		observer.ClubsChanged(clubs)
	}
}

func validate(club shot.Club) error {
	if strings.TrimSpace(club.Name) == "" {
		return fmt.Errorf("club name must not be empty")
	}
	if club.Distance <= 0 {
		return fmt.Errorf("club distance must be positive, got %d", club.Distance)
	}
	return nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
