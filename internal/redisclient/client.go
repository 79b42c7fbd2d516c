package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// SuggestionChannel is the pub/sub channel carrying persisted suggestions
// for one session.
func SuggestionChannel(sessionID string) string {
	return fmt.Sprintf("suggestions:%s", sessionID)
}

// SkillStateKey is the hash mirroring per-session skill evaluations.
func SkillStateKey(sessionID string) string {
	return fmt.Sprintf("skills:%s", sessionID)
}
