// Package auth provides authentication and session management utilities.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Production deployments
// must use cryptographically random keys generated with:
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	sessionUserKeyPrefix = "session-user:"
	sessionMaxAge        = 86400 * 7
)

// Revoker is implemented by session stores that can end every session of a
// user server-side. Cookie stores cannot; their sessions stay valid until the
// user is deleted or the cookie expires.
type Revoker interface {
	RevokeUser(ctx context.Context, userID int64) (int, error)
}

func sessionOptions(secureCookie bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieSessionStore returns a store that keeps session values in the
// encrypted cookie itself. Used when Redis is not configured.
func NewCookieSessionStore(authKey, encryptionKey []byte, secureCookie bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore(authKey, encryptionKey)
	cs.Options = sessionOptions(secureCookie)
	return cs
}

// RedisStore is a sessions.Store keeping session values in Redis. The cookie
// carries only the encrypted session id.
//
// Keys, all under the shared prefix:
//
//	session:<id>            gob-encoded values, TTL = MaxAge
//	session-user:<user id>  set of session ids owned by the user
type RedisStore struct {
	client  *redis.Client
	prefix  string
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore creates a Redis-backed session store. prefix is the key
// namespace shared with the document store (cfg.RedisKeyPrefix).
//
//	store := auth.NewSessionStore(
//	    app.Redis.Client(),
//	    app.Redis.Prefix(),
//	    []byte(cfg.SessionAuthKey),
//	    []byte(cfg.SessionEncryptionKey),
//	    cfg.Environment == config.EnvProduction,
//	)
func NewSessionStore(client *redis.Client, prefix string, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: sessionOptions(secureCookie),
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + sessionKeyPrefix + id
}

func (s *RedisStore) userKey(userID int64) string {
	return s.prefix + sessionUserKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the named session from the request registry.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. Missing, tampered or
// expired sessions yield a fresh session without an error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	id, ok := s.decodeCookie(r, name)
	if !ok {
		return session, nil
	}
	session.ID = id
	if err := s.load(r.Context(), session); err != nil {
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

func (s *RedisStore) decodeCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return "", false
	}
	return id, true
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(r.Context(), session.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// RevokeUser deletes every session owned by userID and returns how many
// were removed.
func (s *RedisStore) RevokeUser(ctx context.Context, userID int64) (int, error) {
	index := s.userKey(userID)
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions of user %d: %w", userID, err)
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	var removed int64
	if len(keys) > 0 {
		if removed, err = s.client.Del(ctx, keys...).Result(); err != nil {
			return 0, fmt.Errorf("revoke sessions of user %d: %w", userID, err)
		}
	}
	if err := s.client.Del(ctx, index).Err(); err != nil {
		return 0, fmt.Errorf("drop session index of user %d: %w", userID, err)
	}
	return int(removed), nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	userID, _ := session.Values[sessionUserIDKey].(int64)

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(session.ID), buf.Bytes(), ttl)
		if userID != 0 {
			p.SAdd(ctx, s.userKey(userID), session.ID)
			p.Expire(ctx, s.userKey(userID), ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.client.Get(ctx, s.key(session.ID)).Bytes()
	if err != nil {
		return fmt.Errorf("get session from redis: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values)
}

// delete removes the session and its entry in the owner's index.
func (s *RedisStore) delete(ctx context.Context, id string) error {
	loaded := sessions.NewSession(s, "")
	loaded.ID = id
	_ = s.load(ctx, loaded)
	userID, _ := loaded.Values[sessionUserIDKey].(int64)

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(id))
		if userID != 0 {
			p.SRem(ctx, s.userKey(userID), id)
		}
		return nil
	})
	return err
}
