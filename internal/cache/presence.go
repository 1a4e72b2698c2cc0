package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const onlineUsersKey = "online_users"

// Presence tracks which users currently hold at least one websocket
// connection, backed by a Redis set.
type Presence struct {
	rdb *redis.Client
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

func (p *Presence) SetOnline(ctx context.Context, userID string) error {
	return p.rdb.SAdd(ctx, onlineUsersKey, userID).Err()
}

func (p *Presence) SetOffline(ctx context.Context, userID string) error {
	return p.rdb.SRem(ctx, onlineUsersKey, userID).Err()
}

func (p *Presence) OnlineUsers(ctx context.Context) ([]string, error) {
	return p.rdb.SMembers(ctx, onlineUsersKey).Result()
}

func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.rdb.SIsMember(ctx, onlineUsersKey, userID).Result()
}
