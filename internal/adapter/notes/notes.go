// Package notes stores free-text notes attached to projects, milestones and
// tasks. Notes never leave the machine (or the configured Redis instance).
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"actai-dashboard/internal/ports"
)

var (
	_ ports.NotesStore = (*FileStore)(nil)
	_ ports.NotesStore = (*RedisStore)(nil)
)

// Entities lists the kinds of object a note can be attached to.
var Entities = []string{"project", "milestone", "task"}

// ValidEntity reports whether notes can be attached to entity.
func ValidEntity(entity string) bool { return slices.Contains(Entities, entity) }

// Key builds the note key for an entity, e.g. Key("task", 7) == "task-7".
func Key(entity string, id int64) string {
	return entity + "-" + strconv.FormatInt(id, 10)
}

// FileStore keeps all notes in one JSON object on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	return decode(b)
}

// Save replaces the file atomically.
func (s *FileStore) Save(_ context.Context, notes map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".notes-*.json")
	if err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write notes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}

// RedisStore keeps all notes as a JSON object under a single key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "actai:notes"

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (map[string]string, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decode(b)
}

func (s *RedisStore) Save(ctx context.Context, notes map[string]string) error {
	b, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func decode(b []byte) (map[string]string, error) {
	notes := map[string]string{}
	if len(b) == 0 {
		return notes, nil
	}
	if err := json.Unmarshal(b, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}
