package cache

import (
	"fmt"
	"strconv"
	"time"
)

const RoomReaderTTL = 90 * time.Second // Match pong timeout

// RoomCache mirrors reading-room presence into Redis sets so the club
// page can show occupancy without touching the hub. Best-effort: the hub
// remains the source of truth for the live roster.
type RoomCache struct {
	redis *RedisCache
}

func NewRoomCache(redis *RedisCache) *RoomCache {
	return &RoomCache{redis: redis}
}

func roomKey(clubID uint) string {
	return fmt.Sprintf("room:%d:readers", clubID)
}

func (rc *RoomCache) AddReader(clubID, userID uint) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	if err := rc.redis.SetAdd(roomKey(clubID), userID); err != nil {
		return err
	}
	// Per-reader key with TTL so crashed connections age out.
	readerKey := fmt.Sprintf("room:%d:reader:%d", clubID, userID)
	return rc.redis.Set(readerKey, []byte("1"), RoomReaderTTL)
}

func (rc *RoomCache) RemoveReader(clubID, userID uint) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	if err := rc.redis.SetRemove(roomKey(clubID), userID); err != nil {
		return err
	}
	readerKey := fmt.Sprintf("room:%d:reader:%d", clubID, userID)
	return rc.redis.Delete(readerKey)
}

func (rc *RoomCache) Readers(clubID uint) ([]uint, error) {
	if rc == nil || rc.redis == nil {
		return nil, nil
	}
	members, err := rc.redis.SetMembers(roomKey(clubID))
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		if id, err := strconv.ParseUint(member, 10, 32); err == nil {
			userIDs = append(userIDs, uint(id))
		}
	}
	return userIDs, nil
}

func (rc *RoomCache) ReaderCount(clubID uint) (int64, error) {
	if rc == nil || rc.redis == nil {
		return 0, nil
	}
	return rc.redis.SetCard(roomKey(clubID))
}
