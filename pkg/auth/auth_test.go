package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/mattismoel/canvascal/pkg/calendarapi"
)

type fakeIdentity struct {
	token     *oauth2.Token
	err       error
	revokeErr error
	requests  int
	revoked   []string
}

func (f *fakeIdentity) RequestAccessToken(ctx context.Context) (*oauth2.Token, error) {
	f.requests++
	return f.token, f.err
}

func (f *fakeIdentity) Revoke(ctx context.Context, accessToken string) error {
	f.revoked = append(f.revoked, accessToken)
	return f.revokeErr
}

func (f *fakeIdentity) Scope() string {
	return "https://www.googleapis.com/auth/calendar.events"
}

func TestSignInAndOut(t *testing.T) {
	idp := &fakeIdentity{token: &oauth2.Token{AccessToken: "abc"}}
	store := &calendarapi.TokenStore{}
	m := NewManager(idp, store, nil)

	var s Session
	assert.Equal(t, SignedOut, s.State)
	assert.False(t, s.SignedIn())

	s, err := m.RequestSignIn(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, SignedIn, s.State)
	assert.True(t, s.SignedIn())
	assert.Equal(t, "abc", s.Token.AccessToken)
	assert.Equal(t, "https://www.googleapis.com/auth/calendar.events", s.Scope)
	assert.Equal(t, "abc", store.Current().AccessToken)

	s, err = m.SignOut(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, SignedOut, s.State)
	assert.Nil(t, s.Token)
	assert.Nil(t, store.Current())
	assert.Equal(t, []string{"abc"}, idp.revoked)
}

func TestConsentEveryTime(t *testing.T) {
	idp := &fakeIdentity{token: &oauth2.Token{AccessToken: "abc"}}
	m := NewManager(idp, &calendarapi.TokenStore{}, nil)

	s, err := m.RequestSignIn(context.Background(), Session{})
	require.NoError(t, err)
	s, err = m.SignOut(context.Background(), s)
	require.NoError(t, err)
	_, err = m.RequestSignIn(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 2, idp.requests)
}

func TestDeniedConsentStaysSignedOut(t *testing.T) {
	denied := errors.New("access_denied")
	idp := &fakeIdentity{err: denied}
	store := &calendarapi.TokenStore{}
	m := NewManager(idp, store, nil)

	s, err := m.RequestSignIn(context.Background(), Session{})
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, SignedOut, s.State)
	assert.Nil(t, store.Current())
}

func TestBeginSignIn(t *testing.T) {
	m := NewManager(&fakeIdentity{}, &calendarapi.TokenStore{}, nil)

	s, err := m.BeginSignIn(Session{})
	require.NoError(t, err)
	assert.Equal(t, AwaitingConsent, s.State)
	assert.False(t, s.SignedIn())

	signedIn := Session{State: SignedIn, Token: &oauth2.Token{AccessToken: "x"}}
	s, err = m.BeginSignIn(signedIn)
	assert.ErrorIs(t, err, ErrAlreadySignedIn)
	assert.Equal(t, signedIn, s)
}

func TestSignInWithoutTokenClient(t *testing.T) {
	m := NewManager(nil, nil, nil)
	s, err := m.RequestSignIn(context.Background(), Session{})
	assert.ErrorIs(t, err, ErrTokenClientNotReady)
	assert.Equal(t, SignedOut, s.State)
}

func TestSignOutWithoutTokenIsNoop(t *testing.T) {
	idp := &fakeIdentity{}
	m := NewManager(idp, &calendarapi.TokenStore{}, nil)

	s := Session{State: SignedIn, Token: &oauth2.Token{AccessToken: "stale"}}
	got, err := m.SignOut(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Empty(t, idp.revoked)

	got, err = m.SignOut(context.Background(), Session{})
	require.NoError(t, err)
	assert.Equal(t, SignedOut, got.State)
	assert.Empty(t, idp.revoked)
}

func TestSignOutRevocationFailureStillSignsOut(t *testing.T) {
	idp := &fakeIdentity{token: &oauth2.Token{AccessToken: "abc"}, revokeErr: errors.New("invalid_token")}
	store := &calendarapi.TokenStore{}
	m := NewManager(idp, store, nil)

	s, err := m.RequestSignIn(context.Background(), Session{})
	require.NoError(t, err)

	s, err = m.SignOut(context.Background(), s)
	assert.EqualError(t, err, "invalid_token")
	assert.Equal(t, SignedOut, s.State)
	assert.Nil(t, store.Current())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "signed out", SignedOut.String())
	assert.Equal(t, "awaiting consent", AwaitingConsent.String())
	assert.Equal(t, "signed in", SignedIn.String())
}
