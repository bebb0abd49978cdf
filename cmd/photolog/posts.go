package main

import (
	"slices"
	"sync"
	"time"
)

type post struct {
	ID        string
	Title     string
	Caption   string
	Filename  string
	Published time.Time
}

// postStore keeps posts in memory, newest first.
type postStore struct {
	mu    sync.RWMutex
	posts []post
}

func (s *postStore) add(p post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = slices.Insert(s.posts, 0, p)
}

func (s *postStore) all() []post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

func (s *postStore) remove(id string) (post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.posts, func(p post) bool { return p.ID == id })
	if i < 0 {
		return post{}, false
	}
	p := s.posts[i]
	s.posts = slices.Delete(s.posts, i, i+1)
	return p, true
}
