package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "list"

var (
	// ErrItemNotFound is returned when no item has the given id.
	ErrItemNotFound = errors.New("shopping list item not found")
	// ErrInvalidCount is returned for negative counts.
	ErrInvalidCount = errors.New("count must not be negative")
)

// Storage defines where the serialized list is kept.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// Item is one shopping list entry.
type Item struct {
	ID         string  `json:"id"`
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// List is the shopping list. Every change is written through to storage.
type List struct {
	mu      sync.RWMutex
	items   []Item
	storage Storage
}

// New creates an empty List backed by storage. A nil storage keeps the list
// in memory only.
func New(storage Storage) *List {
	return &List{storage: storage}
}

// AddItem appends a new entry and returns it.
func (l *List) AddItem(ctx context.Context, count float64, unit, ingredient string) (Item, error) {
	if count < 0 {
		return Item{}, ErrInvalidCount
	}
	item := Item{
		ID:         uuid.NewString(),
		Count:      count,
		Unit:       unit,
		Ingredient: ingredient,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, item)
	if err := l.persist(ctx); err != nil {
		l.items = l.items[:len(l.items)-1]
		return Item{}, err
	}
	return item, nil
}

// DeleteItem removes the entry with id.
func (l *List) DeleteItem(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.index(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	prev := l.items
	l.items = append(append([]Item(nil), l.items[:idx]...), l.items[idx+1:]...)
	if err := l.persist(ctx); err != nil {
		l.items = prev
		return err
	}
	return nil
}

// UpdateCount sets the count of the entry with id.
func (l *List) UpdateCount(ctx context.Context, id string, count float64) (Item, error) {
	if count < 0 {
		return Item{}, ErrInvalidCount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.index(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	old := l.items[idx].Count
	l.items[idx].Count = count
	if err := l.persist(ctx); err != nil {
		l.items[idx].Count = old
		return Item{}, err
	}
	return l.items[idx], nil
}

// Items returns a copy of the entries in insertion order.
func (l *List) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Item(nil), l.items...)
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// ReadStorage replaces the in-memory entries with the persisted ones.
func (l *List) ReadStorage(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}
	raw, err := l.storage.GetItem(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("read list: %w", err)
	}
	if raw == "" {
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("failed to unmarshal list: %w", err)
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

func (l *List) index(id string) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with l.mu held.
func (l *List) persist(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}
	data, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}
	if err := l.storage.SetItem(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist list: %w", err)
	}
	return nil
}
