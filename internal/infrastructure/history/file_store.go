package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

// FileStore keeps chat history in memory and persists it as a single JSON
// array on disk. Nothing is written until Save is called.
type FileStore struct {
	mu            sync.RWMutex
	path          string
	conversations map[string]domain.Conversation

	// saveMu is held from snapshot to rename so an older snapshot never
	// replaces a newer file
	saveMu sync.Mutex
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:          path,
		conversations: make(map[string]domain.Conversation),
	}
}

// Load replaces the in-memory history with the file contents.
// A missing file is an empty history.
func (s *FileStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.conversations = make(map[string]domain.Conversation)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	var list []domain.Conversation
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to decode history file: %w", err)
		}
	}

	loaded := make(map[string]domain.Conversation, len(list))
	for _, conv := range list {
		loaded[conv.ID] = conv
	}

	s.mu.Lock()
	s.conversations = loaded
	s.mu.Unlock()

	log.Printf("[History] Loaded %d conversations from %s", len(loaded), s.path)
	return nil
}

// Save writes the whole history to disk through a temp file and rename
func (s *FileStore) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.sortedLocked(), "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	return nil
}

// List returns all conversations, most recently updated first
func (s *FileStore) List(ctx context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// Get returns a copy of one conversation
func (s *FileStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConversationNotFound, id)
	}
	conv.Messages = append([]domain.Message(nil), conv.Messages...)
	return &conv, nil
}

// Upsert inserts or replaces a conversation by ID
func (s *FileStore) Upsert(ctx context.Context, conversation *domain.Conversation) error {
	if conversation == nil || conversation.ID == "" {
		return fmt.Errorf("%w: conversation ID is required", domain.ErrInvalidRequest)
	}

	stored := *conversation
	stored.Messages = append([]domain.Message(nil), conversation.Messages...)

	s.mu.Lock()
	s.conversations[stored.ID] = stored
	s.mu.Unlock()
	return nil
}

// AppendMessages adds messages to the end of an existing conversation
// under the write lock
func (s *FileStore) AppendMessages(ctx context.Context, id string, updatedAt time.Time, messages ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrConversationNotFound, id)
	}
	merged := make([]domain.Message, 0, len(conv.Messages)+len(messages))
	merged = append(merged, conv.Messages...)
	conv.Messages = append(merged, messages...)
	conv.UpdatedAt = updatedAt
	s.conversations[id] = conv
	return nil
}

// Delete removes one conversation
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrConversationNotFound, id)
	}
	delete(s.conversations, id)
	return nil
}

// Clear removes every conversation
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.conversations = make(map[string]domain.Conversation)
	s.mu.Unlock()
	return nil
}

// sortedLocked must be called with mu held
func (s *FileStore) sortedLocked() []domain.Conversation {
	list := make([]domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		list = append(list, conv)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list
}
