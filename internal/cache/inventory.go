package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	PostKeyPrefix = "post:%d"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func keyKind(key string) string {
	if kind, _, ok := strings.Cut(key, ":"); ok {
		return kind
	}
	return "other"
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePrefix deletes every key whose kind matches one of the prefixes.
func InvalidatePrefix(ctx context.Context, kinds ...string) error {
	if client == nil {
		return nil
	}
	for _, kind := range kinds {
		iter := client.Scan(ctx, 0, kind+":*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s keys: %w", kind, err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s keys: %w", kind, err)
			}
		}
	}
	return nil
}
