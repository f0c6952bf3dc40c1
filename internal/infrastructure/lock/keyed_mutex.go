package lock

import (
	"context"
	"sync"
)

// KeyedMutex bloqueo por llave dentro del proceso. Sirve cuando hay una sola instancia de la API.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewKeyedMutex crea el locker en proceso.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Lock bloquea todas las llaves o ninguna. Espera hasta que se liberen o ctx termine.
func (m *KeyedMutex) Lock(ctx context.Context, keys ...string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := m.acquire(ctx, k); err != nil {
			for _, h := range held {
				m.release(h, true)
			}
			return nil, err
		}
		held = append(held, k)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, h := range held {
				m.release(h, true)
			}
		})
	}, nil
}

func (m *KeyedMutex) acquire(ctx context.Context, key string) error {
	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(key, false)
		return ctx.Err()
	}
}

func (m *KeyedMutex) release(key string, held bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[key]
	if held {
		<-s.ch
	}
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}
