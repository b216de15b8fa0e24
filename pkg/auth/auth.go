// Package auth manages the Google sign in state of a session. Sessions are
// plain values handed to and returned from the manager; nothing is kept in
// package state and nothing is written to disk.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type State int

const (
	SignedOut State = iota
	AwaitingConsent
	SignedIn
)

func (s State) String() string {
	switch s {
	case AwaitingConsent:
		return "awaiting consent"
	case SignedIn:
		return "signed in"
	}
	return "signed out"
}

var (
	ErrTokenClientNotReady = errors.New("identity token client is not ready")
	ErrAlreadySignedIn     = errors.New("already signed in")
)

// Session is the sign in state of the current page view.
type Session struct {
	State State
	Token *oauth2.Token
	Scope string
}

func (s Session) SignedIn() bool {
	return s.State == SignedIn && s.Token != nil
}

// TokenRequester is the identity side of the flow.
type TokenRequester interface {
	RequestAccessToken(ctx context.Context) (*oauth2.Token, error)
	Revoke(ctx context.Context, accessToken string) error
	Scope() string
}

// TokenStore is the calendar client's store of the token it sends.
type TokenStore interface {
	SetToken(token *oauth2.Token)
	Current() *oauth2.Token
	Clear()
}

type Manager struct {
	tokens TokenRequester
	store  TokenStore
	logger *zap.Logger
}

func NewManager(tokens TokenRequester, store TokenStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{tokens: tokens, store: store, logger: logger}
}

// BeginSignIn marks the session as waiting for the user's consent.
func (m *Manager) BeginSignIn(s Session) (Session, error) {
	if m.tokens == nil || m.store == nil {
		return s, ErrTokenClientNotReady
	}
	if s.State == SignedIn {
		return s, ErrAlreadySignedIn
	}
	return Session{State: AwaitingConsent}, nil
}

// RequestSignIn prompts for consent and, once granted, hands the token to the
// calendar client. A denied or failed prompt leaves the session signed out;
// the cause is returned for logging only.
func (m *Manager) RequestSignIn(ctx context.Context, s Session) (Session, error) {
	s, err := m.BeginSignIn(s)
	if err != nil {
		return s, err
	}

	token, err := m.tokens.RequestAccessToken(ctx)
	if err != nil {
		m.logger.Info("sign in did not complete", zap.Error(err))
		return Session{State: SignedOut}, err
	}

	m.store.SetToken(token)
	m.logger.Info("signed in to google calendar")
	return Session{
		State: SignedIn,
		Token: token,
		Scope: m.tokens.Scope(),
	}, nil
}

// SignOut revokes the token held by the calendar client. Without a held token
// it does nothing. The session is signed out once revocation has completed,
// whether or not the provider accepted it.
func (m *Manager) SignOut(ctx context.Context, s Session) (Session, error) {
	if s.State != SignedIn || m.store == nil {
		return s, nil
	}
	token := m.store.Current()
	if token == nil {
		return s, nil
	}

	err := m.tokens.Revoke(ctx, token.AccessToken)
	if err != nil {
		m.logger.Warn("could not revoke token", zap.Error(err))
	}
	m.store.Clear()
	m.logger.Info("signed out of google calendar")
	return Session{State: SignedOut}, err
}
