// Package redisclient persists console view preferences so a reconnecting
// operator resumes the dashboard where they left it. Redis being down only
// costs the resume: the console falls back to default preferences.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// Prefs captures the dashboard view state worth keeping across sessions
type Prefs struct {
	StatusFilter  string
	Search        string
	SortAscending bool
}

// NewClient creates a Redis-backed preferences store
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func prefsKey(consoleID string) string {
	return fmt.Sprintf("console:prefs:%s", consoleID)
}

// SavePrefs stores the preferences for a console key with the configured TTL
func (c *Client) SavePrefs(ctx context.Context, consoleID string, p Prefs) error {
	key := prefsKey(consoleID)

	sortAsc := "0"
	if p.SortAscending {
		sortAsc = "1"
	}

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, "status_filter", p.StatusFilter)
	pipe.HSet(ctx, key, "search", p.Search)
	pipe.HSet(ctx, key, "sort_asc", sortAsc)
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// LoadPrefs retrieves preferences for a console key; nil when none are stored
func (c *Client) LoadPrefs(ctx context.Context, consoleID string) (*Prefs, error) {
	result, err := c.rdb.HGetAll(ctx, prefsKey(consoleID)).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	return &Prefs{
		StatusFilter:  result["status_filter"],
		Search:        result["search"],
		SortAscending: result["sort_asc"] == "1",
	}, nil
}

// DeletePrefs removes stored preferences for a console key
func (c *Client) DeletePrefs(ctx context.Context, consoleID string) error {
	return c.rdb.Del(ctx, prefsKey(consoleID)).Err()
}
