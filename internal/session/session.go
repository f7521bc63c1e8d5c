// Package session holds state shared between operations of one process,
// currently the comment of the last successful commit.
package session

import "sync"

type Session struct {
	mu          sync.RWMutex
	lastComment string

	onChange func(comment string)
}

func New() *Session {
	return &Session{}
}

func (s *Session) LastComment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastComment
}

func (s *Session) SetLastComment(comment string) {
	s.mu.Lock()
	s.lastComment = comment
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(comment)
	}
}

// restore sets the comment without notifying the change hook.
func (s *Session) restore(comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastComment = comment
}

func (s *Session) setOnChange(fn func(comment string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}
