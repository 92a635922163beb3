package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// Key layout:
//
//	session:<session_id>   hash with the session fields
//	user_session:<user_id> id of the identity's single active session
//
// Both keys are always mutated together inside Lua scripts, so the
// single-session invariant holds under concurrent logins without any
// client-side locking.
const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user_session:"
)

// putScript installs a new session and evicts the identity's prior one in
// a single atomic step. Returns the evicted session id or "".
var putScript = redis.NewScript(`
local old = redis.call("GET", KEYS[2])
if old then
  redis.call("DEL", "session:" .. old)
end
redis.call("HSET", KEYS[1],
  "user_id", ARGV[1],
  "username", ARGV[2],
  "role", ARGV[3],
  "created_at", ARGV[4],
  "last_access_at", ARGV[5])
redis.call("SET", KEYS[2], ARGV[6])
if old then
  return old
end
return ""
`)

// deleteScript removes a session and clears the identity index when it
// still points at the removed session.
var deleteScript = redis.NewScript(`
local uid = redis.call("HGET", KEYS[1], "user_id")
redis.call("DEL", KEYS[1])
if uid then
  local key = "user_session:" .. uid
  if redis.call("GET", key) == ARGV[1] then
    redis.call("DEL", key)
  end
end
return 1
`)

// deleteByUserScript removes whatever session the identity currently holds.
var deleteByUserScript = redis.NewScript(`
local sid = redis.call("GET", KEYS[1])
if sid then
  redis.call("DEL", "session:" .. sid)
end
redis.call("DEL", KEYS[1])
return 1
`)

// RedisSessionStore keeps active sessions in Redis, shared across all
// request workers.
type RedisSessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Put(ctx context.Context, session *domain.Session) (string, error) {
	evicted, err := putScript.Run(ctx, s.client,
		[]string{sessionKeyPrefix + session.ID, userKeyPrefix + session.UserID},
		session.UserID,
		session.Username,
		session.Role,
		session.CreatedAt.Unix(),
		session.LastAccessAt.Unix(),
		session.ID,
	).Text()
	if err != nil {
		return "", fmt.Errorf("put session: %w", err)
	}
	return evicted, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.Session{
		ID:           id,
		UserID:       fields["user_id"],
		Username:     fields["username"],
		Role:         fields["role"],
		CreatedAt:    parseUnix(fields["created_at"]),
		LastAccessAt: parseUnix(fields["last_access_at"]),
	}, nil
}

func (s *RedisSessionStore) Touch(ctx context.Context, id string, at time.Time) error {
	key := sessionKeyPrefix + id
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if exists == 0 {
		return domain.ErrSessionNotFound
	}
	return s.client.HSet(ctx, key, "last_access_at", at.Unix()).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := deleteScript.Run(ctx, s.client, []string{sessionKeyPrefix + id}, id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if err := deleteByUserScript.Run(ctx, s.client, []string{userKeyPrefix + userID}).Err(); err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}
	return nil
}

func parseUnix(s string) time.Time {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
