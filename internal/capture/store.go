package capture

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/overlaykit/pixelproof/internal/shared"
)

const DefaultFrameTTL = 5 * time.Minute

// Frame is one screenshot pushed to a capture channel, scored by capture
// time so the newest frame is always retrievable.
type Frame struct {
	CaptureID string
	Timestamp int64
	Data      []byte
}

// Store keeps screenshot frames in a redis sorted set per capture channel,
// scored by unix-millisecond timestamp. The whole channel expires frameTTL
// after its last push; frames are transport, not persistence.
type Store struct {
	redis    *redis.Client
	frameTTL time.Duration
}

func NewStore(redisClient *redis.Client, frameTTL time.Duration) *Store {
	if frameTTL == 0 {
		frameTTL = DefaultFrameTTL
	}
	return &Store{
		redis:    redisClient,
		frameTTL: frameTTL,
	}
}

func frameKey(captureID string) string {
	return fmt.Sprintf("capture:%s:frames", captureID)
}

func (s *Store) Push(ctx context.Context, frame *Frame) error {
	member := redis.Z{
		Score:  float64(frame.Timestamp),
		Member: frame.Data,
	}

	pipe := s.redis.Pipeline()
	pipe.ZAdd(ctx, frameKey(frame.CaptureID), member)
	pipe.Expire(ctx, frameKey(frame.CaptureID), s.frameTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Latest returns the newest frame on the channel, or shared.ErrNotFound when
// the channel is empty or expired.
func (s *Store) Latest(ctx context.Context, captureID string) (*Frame, error) {
	results, err := s.redis.ZRevRangeWithScores(ctx, frameKey(captureID), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("capture %s has no frames: %w", captureID, shared.ErrNotFound)
	}

	data, ok := results[0].Member.(string)
	if !ok {
		return nil, fmt.Errorf("invalid frame data type")
	}

	return &Frame{
		CaptureID: captureID,
		Timestamp: int64(results[0].Score),
		Data:      []byte(data),
	}, nil
}

// Range returns frames with timestamps in [startTime, endTime], oldest
// first, at most limit of them.
func (s *Store) Range(ctx context.Context, captureID string, startTime, endTime int64, limit int) ([]*Frame, error) {
	opt := &redis.ZRangeBy{
		Min:   strconv.FormatInt(startTime, 10),
		Max:   strconv.FormatInt(endTime, 10),
		Count: int64(limit),
	}

	results, err := s.redis.ZRangeByScoreWithScores(ctx, frameKey(captureID), opt).Result()
	if err != nil {
		return nil, err
	}

	frames := make([]*Frame, 0, len(results))
	for _, r := range results {
		data, ok := r.Member.(string)
		if !ok {
			continue
		}
		frames = append(frames, &Frame{
			CaptureID: captureID,
			Timestamp: int64(r.Score),
			Data:      []byte(data),
		})
	}

	return frames, nil
}

func (s *Store) Count(ctx context.Context, captureID string) (int64, error) {
	return s.redis.ZCard(ctx, frameKey(captureID)).Result()
}

func (s *Store) Delete(ctx context.Context, captureID string) error {
	return s.redis.Del(ctx, frameKey(captureID)).Err()
}

// LatestFrame satisfies the comparison service's frame source.
func (s *Store) LatestFrame(ctx context.Context, captureID string) ([]byte, error) {
	frame, err := s.Latest(ctx, captureID)
	if err != nil {
		return nil, err
	}
	return frame.Data, nil
}
