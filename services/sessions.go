package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tonotes/model"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the server-side half of a login so tokens can be revoked.
type SessionStore interface {
	SetSession(ctx context.Context, session *model.Session) error
	// GetSession returns nil, nil when the session is unknown or expired.
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}

type SessionCache struct {
	client *redis.Client
	now    func() time.Time
}

var _ SessionStore = (*SessionCache)(nil)

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// NewSessionCache creates and initializes a new session cache
func NewSessionCache(ctx context.Context, redisURL string) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return NewSessionCacheWithClient(client), nil
}

func NewSessionCacheWithClient(client *redis.Client) *SessionCache {
	return &SessionCache{client: client, now: time.Now}
}

// SetSession stores the session until it expires and indexes it under its user.
func (sc *SessionCache) SetSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := session.ExpiresAt.Sub(sc.now())
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	indexKey := userSessionsKey(session.UserID)
	_, err = sc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.SessionID), data, ttl)
		pipe.SAdd(ctx, indexKey, session.SessionID)
		pipe.Expire(ctx, indexKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache session: %v", err)
	}
	return nil
}

func (sc *SessionCache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	data, err := sc.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %v", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	if sc.now().After(session.ExpiresAt) {
		if err := sc.DeleteSession(ctx, session.UserID, sessionID); err != nil {
			log.Printf("Failed to drop expired session %s: %v", sessionID, err)
		}
		return nil, nil
	}

	return &session, nil
}

func (sc *SessionCache) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	_, err := sc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(sessionID))
		if userID != "" {
			pipe.SRem(ctx, userSessionsKey(userID), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session from cache: %v", err)
	}
	return nil
}

// DeleteUserSessions revokes every session the user holds.
func (sc *SessionCache) DeleteUserSessions(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	indexKey := userSessionsKey(userID)
	ids, err := sc.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %v", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, indexKey)

	if err := sc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %v", err)
	}
	return nil
}

// CleanupExpiredSessions drops index entries whose session key has already expired.
func (sc *SessionCache) CleanupExpiredSessions(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := sc.client.Scan(ctx, cursor, "user_sessions:*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %v", err)
		}

		for _, key := range keys {
			ids, err := sc.client.SMembers(ctx, key).Result()
			if err != nil {
				continue
			}
			for _, id := range ids {
				exists, err := sc.client.Exists(ctx, sessionKey(id)).Result()
				if err == nil && exists == 0 {
					sc.client.SRem(ctx, key, id)
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// StartCleanupTask prunes the session index every interval until ctx is done.
func (sc *SessionCache) StartCleanupTask(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sc.CleanupExpiredSessions(ctx); err != nil {
					log.Printf("Error cleaning up expired sessions: %v", err)
				}
			}
		}
	}()
}

func (sc *SessionCache) Ping(ctx context.Context) error {
	if sc == nil || sc.client == nil {
		return errors.New("session cache not initialized")
	}
	return sc.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
