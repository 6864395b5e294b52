package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ticketline/auth-service/internal/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewSessionStore(NewFromRedisClient(rdb))
}

func isMissingField(err error, field string) bool {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code == "missing_field" && de.Meta != nil && de.Meta["field"] == field
	}
	return false
}

func TestSessionStore_CreateRefreshToken_RedisNil(t *testing.T) {
	s := NewSessionStore(nil)

	_, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	if err == nil {
		t.Fatalf("expected error when redis not configured")
	}
}

func TestSessionStore_CreateRefreshToken_MissingUser(t *testing.T) {
	s := NewSessionStore(nil)

	_, err := s.CreateRefreshToken(context.Background(), "", time.Hour)
	if !isMissingField(err, "user_id") {
		t.Fatalf("expected missing_field(user_id), got %v", err)
	}
}

func TestSessionStore_CreateAndLookup(t *testing.T) {
	s := newTestStore(t)

	tok, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, err := s.GetUserIDByRefreshToken(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestSessionStore_Rotate_OldTokenDies(t *testing.T) {
	s := newTestStore(t)

	old, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	require.NoError(t, err)

	newTok, err := s.RotateRefreshToken(context.Background(), old, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, old, newTok)

	_, err = s.GetUserIDByRefreshToken(context.Background(), old)
	require.True(t, domain.Is(err, "refresh_token_invalid"))

	uid, err := s.GetUserIDByRefreshToken(context.Background(), newTok)
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestSessionStore_Rotate_EmptyToken(t *testing.T) {
	s := NewSessionStore(nil)

	_, err := s.RotateRefreshToken(context.Background(), "", time.Hour)
	if !domain.Is(err, "refresh_token_invalid") {
		t.Fatalf("expected refresh_token_invalid")
	}
}

func TestSessionStore_RevokeAll_InvalidatesEveryToken(t *testing.T) {
	s := newTestStore(t)

	tok1, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	require.NoError(t, err)
	tok2, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.RevokeAll(context.Background(), "u1"))

	for _, tok := range []string{tok1, tok2} {
		_, err := s.GetUserIDByRefreshToken(context.Background(), tok)
		require.True(t, domain.Is(err, "refresh_token_invalid"), "token should be dead after RevokeAll")
	}

	// New tokens issued after the bump work again.
	tok3, err := s.CreateRefreshToken(context.Background(), "u1", time.Hour)
	require.NoError(t, err)
	uid, err := s.GetUserIDByRefreshToken(context.Background(), tok3)
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestSessionStore_RevokeRefreshToken_Empty_IsIdempotent(t *testing.T) {
	s := NewSessionStore(nil)

	if err := s.RevokeRefreshToken(context.Background(), ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := s.RevokeRefreshToken(context.Background(), "   "); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestParseUIDVer(t *testing.T) {
	uid, ver, err := parseUIDVer("abc:3")
	if err != nil {
		t.Fatalf("unexpected error")
	}
	if uid != "abc" || ver != 3 {
		t.Fatalf("bad parse")
	}
}

func TestParseUIDVer_Invalid(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"abc:",
		":1",
		"abc:x",
	}

	for _, c := range cases {
		if _, _, err := parseUIDVer(c); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}
