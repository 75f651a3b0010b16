package likes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// StorageKey is the key the likes are persisted under.
const StorageKey = "likes"

// Storage defines where the serialized likes are kept.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// Like is a bookmarked recipe summary.
type Like struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Img    string `json:"img"`
}

// Likes holds the bookmarked recipes in the order they were liked.
type Likes struct {
	mu      sync.RWMutex
	likes   []Like
	storage Storage
}

// New creates an empty Likes backed by storage. A nil storage keeps the likes
// in memory only.
func New(storage Storage) *Likes {
	return &Likes{storage: storage}
}

// AddLike bookmarks a recipe. Liking an already liked recipe returns the
// existing like unchanged.
func (l *Likes) AddLike(ctx context.Context, like Like) (Like, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if idx := l.index(like.ID); idx >= 0 {
		return l.likes[idx], nil
	}

	l.likes = append(l.likes, like)
	if err := l.persist(ctx); err != nil {
		l.likes = l.likes[:len(l.likes)-1]
		return Like{}, err
	}
	return like, nil
}

// DeleteLike removes the bookmark for id. Missing ids are ignored.
func (l *Likes) DeleteLike(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.index(id)
	if idx < 0 {
		return nil
	}
	prev := l.likes
	l.likes = append(append([]Like(nil), l.likes[:idx]...), l.likes[idx+1:]...)
	if err := l.persist(ctx); err != nil {
		l.likes = prev
		return err
	}
	return nil
}

// UpdateImage points an existing like at a new image.
func (l *Likes) UpdateImage(ctx context.Context, id, img string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.index(id)
	if idx < 0 {
		return nil
	}
	old := l.likes[idx].Img
	l.likes[idx].Img = img
	if err := l.persist(ctx); err != nil {
		l.likes[idx].Img = old
		return err
	}
	return nil
}

// IsLiked reports whether id is bookmarked.
func (l *Likes) IsLiked(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index(id) >= 0
}

// NumLikes returns the number of bookmarks.
func (l *Likes) NumLikes() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.likes)
}

// All returns a copy of the bookmarks.
func (l *Likes) All() []Like {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Like(nil), l.likes...)
}

// ReadStorage restores the bookmarks persisted by a previous run.
func (l *Likes) ReadStorage(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}
	raw, err := l.storage.GetItem(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("read likes: %w", err)
	}
	if raw == "" {
		return nil
	}

	var likes []Like
	if err := json.Unmarshal([]byte(raw), &likes); err != nil {
		return fmt.Errorf("failed to unmarshal likes: %w", err)
	}

	l.mu.Lock()
	l.likes = likes
	l.mu.Unlock()
	return nil
}

func (l *Likes) index(id string) int {
	for i, like := range l.likes {
		if like.ID == id {
			return i
		}
	}
	return -1
}

func (l *Likes) persist(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}
	data, err := json.Marshal(l.likes)
	if err != nil {
		return fmt.Errorf("failed to marshal likes: %w", err)
	}
	if err := l.storage.SetItem(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist likes: %w", err)
	}
	return nil
}
