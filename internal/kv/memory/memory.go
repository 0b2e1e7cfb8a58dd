// Package memory is the in-process kv backend: the default for local
// runs and the substitute used by store tests.
package memory

import (
	"context"
	"sync"

	"undangan/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	items  map[string]string
	subs   map[int]chan kv.Event
	nextID int
}

func New() *Store {
	return &Store{
		items: make(map[string]string),
		subs:  make(map[int]chan kv.Event),
	}
}

// Seed preloads keys without notifying watchers.
func (s *Store) Seed(items map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range items {
		s.items[k] = v
	}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.notifyLocked(kv.Event{Key: key, Value: value})
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.notifyLocked(kv.Event{Key: key})
	s.mu.Unlock()
	return nil
}

// Watch subscribes to change events. The channel closes when ctx ends.
func (s *Store) Watch(ctx context.Context) (<-chan kv.Event, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan kv.Event, 16)
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

// notifyLocked drops events for slow subscribers rather than blocking a
// write behind them.
func (s *Store) notifyLocked(ev kv.Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
