package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Turn is one exchange in a conversation.
type Turn struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Intent    string    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// maxTurns bounds per-session history; older turns are trimmed first.
const maxTurns = 20

// Store keeps bounded per-session conversation history.
type Store interface {
	Append(ctx context.Context, sessionID string, turn Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
}

// RedisStore keeps each session as a Redis list, newest first, capped at
// maxTurns entries with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: 24 * time.Hour}
}

func sessionKey(sessionID string) string {
	return "chatbot:session:" + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	key := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxTurns-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append session turn: %w", err)
	}
	return nil
}

// History returns the session's turns oldest first.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), 0, maxTurns-1).Result()
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	// List is newest first; reverse to chronological order.
	for i := len(raw) - 1; i >= 0; i-- {
		var turn Turn
		if err := json.Unmarshal([]byte(raw[i]), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

var _ Store = (*RedisStore)(nil)

// MemoryStore is the in-process fallback when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]Turn)}
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	s.sessions[sessionID] = turns
	return nil
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
