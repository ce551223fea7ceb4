package redis

import (
	"fmt"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// eventsChannel returns the pub/sub channel for a room's events
func eventsChannel(prefix string, id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s:events", prefix, id)
}

// historyKey returns the Redis key for a room's capped event list
func historyKey(prefix string, id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s:history", prefix, id)
}
