package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%s"
	PostListKeyPrefix = "posts:%s:%d:%d"
	TrendingKeyPrefix = "trending:%d"
	UnreadKeyPrefix   = "notifications:unread:%s"
)

const (
	PostTTL     = 30 * time.Minute
	PostListTTL = 1 * time.Minute
	TrendingTTL = 5 * time.Minute
	UnreadTTL   = 30 * time.Second
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostListKey(category string, limit, offset int) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(PostListKeyPrefix, category, limit, offset)
}

func TrendingKey(limit int) string {
	return fmt.Sprintf(TrendingKeyPrefix, limit)
}

func UnreadKey(userID string) string {
	return fmt.Sprintf(UnreadKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateUnread(ctx context.Context, userID string) {
	Invalidate(ctx, UnreadKey(userID))
}

// InvalidatePostLists drops every cached post listing page. Listing keys vary
// by category and pagination, so they are matched by pattern.
func InvalidatePostLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	iter = client.Scan(ctx, 0, "trending:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
