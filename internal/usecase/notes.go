package usecase

import (
	"context"
	"maps"
	"strings"
	"sync"

	"actai-dashboard/internal/ports"
)

// Notes caches the note map after the first load and writes it back on
// every change.
type Notes struct {
	Store ports.NotesStore

	mu     sync.Mutex
	notes  map[string]string
	loaded bool
}

func (uc *Notes) load(ctx context.Context) error {
	if uc.loaded {
		return nil
	}
	m, err := uc.Store.Load(ctx)
	if err != nil {
		return err
	}
	if m == nil {
		m = map[string]string{}
	}
	uc.notes, uc.loaded = m, true
	return nil
}

// Get returns the note for key, or "" when there is none.
func (uc *Notes) Get(ctx context.Context, key string) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return "", err
	}
	return uc.notes[key], nil
}

// Set stores text under key. Blank text removes the note.
func (uc *Notes) Set(ctx context.Context, key, text string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return err
	}
	next := maps.Clone(uc.notes)
	if strings.TrimSpace(text) == "" {
		delete(next, key)
	} else {
		next[key] = text
	}
	if err := uc.Store.Save(ctx, next); err != nil {
		return err
	}
	uc.notes = next
	return nil
}

// All returns a copy of every note.
func (uc *Notes) All(ctx context.Context) (map[string]string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.load(ctx); err != nil {
		return nil, err
	}
	return maps.Clone(uc.notes), nil
}
