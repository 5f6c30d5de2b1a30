package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// ChannelID records the live channel identifier under the key "channel_id".
func ChannelID(id any) slog.Attr {
	return slog.Any("channel_id", id)
}

// Room records a room identifier under the key "room".
func Room(room string) slog.Attr {
	return slog.String("room", room)
}

// NotificationID records the notification identifier under the key
// "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// CacheKey records a cache key under the key "cache_key".
func CacheKey(key string) slog.Attr {
	return slog.String("cache_key", key)
}

// Event records the wire event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// TaskID records the task identifier under the key "task_id".
func TaskID(id any) slog.Attr {
	return slog.Any("task_id", id)
}

// ProjectID records the project identifier under the key "project_id".
func ProjectID(id any) slog.Attr {
	return slog.Any("project_id", id)
}
