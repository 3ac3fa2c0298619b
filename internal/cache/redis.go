package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resumehub/internal/config"
	"resumehub/internal/logger"
)

const (
	sessionKeyPrefix = "chat_session:"
	sessionTTL       = 24 * time.Hour
	maxCachedTurns   = 50
)

// Client оборачивает redis-клиент для кеширования контекста чат-сессий.
type Client struct {
	rdb *redis.Client
}

// CachedMessage - одно сообщение в кешированном контексте сессии.
type CachedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionContext - горячий контекст сессии, который читается на каждом
// сообщении вместо похода в базу.
type SessionContext struct {
	SessionID  string          `json:"session_id"`
	UserID     string          `json:"user_id,omitempty"`
	ResumeID   string          `json:"resume_id,omitempty"`
	ResumeText string          `json:"resume_text,omitempty"`
	Messages   []CachedMessage `json:"messages"`
}

// NewClient подключается к Redis и проверяет соединение.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return &Client{rdb: rdb}, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// GetSession возвращает контекст сессии из кеша. (nil, nil) при промахе.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionContext, error) {
	raw, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sc SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("redis decode session: %w", err)
	}
	return &sc, nil
}

// SaveSession сохраняет контекст сессии с TTL, обрезая историю до
// последних maxCachedTurns сообщений.
func (c *Client) SaveSession(ctx context.Context, sc *SessionContext) error {
	if len(sc.Messages) > maxCachedTurns {
		sc.Messages = sc.Messages[len(sc.Messages)-maxCachedTurns:]
	}

	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("redis encode session: %w", err)
	}
	if err := c.rdb.Set(ctx, sessionKey(sc.SessionID), raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// AppendMessage добавляет сообщение в кешированную историю, если сессия
// есть в кеше. Промах кеша не считается ошибкой.
func (c *Client) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	sc, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sc == nil {
		return nil
	}
	sc.Messages = append(sc.Messages, CachedMessage{Role: role, Content: content})
	return c.SaveSession(ctx, sc)
}

// DeleteSession удаляет контекст сессии из кеша.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close закрывает соединение с Redis.
func (c *Client) Close() error {
	return c.rdb.Close()
}
