package calendarapi

import (
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore holds the access token the calendar client sends. It is the only
// place the token lives; nothing is written to disk. The HTTP transport reads
// it from request goroutines, hence the lock.
type TokenStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func (s *TokenStore) SetToken(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Current returns the held token, or nil.
func (s *TokenStore) Current() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) Clear() {
	s.SetToken(nil)
}

// Token implements oauth2.TokenSource.
func (s *TokenStore) Token() (*oauth2.Token, error) {
	if t := s.Current(); t != nil {
		return t, nil
	}
	return nil, ErrNoToken
}
