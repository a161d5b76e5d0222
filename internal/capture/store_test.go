package capture

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/overlaykit/pixelproof/internal/shared"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, time.Minute), mr
}

func TestStore_PushAndLatest(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	frames := []*Frame{
		{CaptureID: "cap_1", Timestamp: 100, Data: []byte("first")},
		{CaptureID: "cap_1", Timestamp: 300, Data: []byte("third")},
		{CaptureID: "cap_1", Timestamp: 200, Data: []byte("second")},
	}
	for _, f := range frames {
		if err := store.Push(ctx, f); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	latest, err := store.Latest(ctx, "cap_1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Timestamp != 300 {
		t.Errorf("expected newest frame at 300, got %d", latest.Timestamp)
	}
	if !bytes.Equal(latest.Data, []byte("third")) {
		t.Errorf("expected newest frame data, got %q", latest.Data)
	}
}

func TestStore_LatestEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Latest(context.Background(), "cap_missing")
	if !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Range(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		frame := &Frame{CaptureID: "cap_1", Timestamp: i * 100, Data: []byte{byte(i)}}
		if err := store.Push(ctx, frame); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	frames, err := store.Range(ctx, "cap_1", 200, 400, 10)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames in [200,400], got %d", len(frames))
	}
	for i, f := range frames {
		if want := int64(200 + i*100); f.Timestamp != want {
			t.Errorf("frame %d: expected timestamp %d, got %d", i, want, f.Timestamp)
		}
	}

	limited, err := store.Range(ctx, "cap_1", 0, 1000, 2)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit of 2 frames, got %d", len(limited))
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Push(ctx, &Frame{CaptureID: "cap_1", Timestamp: 1, Data: []byte("x")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := store.Delete(ctx, "cap_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Latest(ctx, "cap_1"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_FramesExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Push(ctx, &Frame{CaptureID: "cap_1", Timestamp: 1, Data: []byte("x")}); err != nil {
		t.Fatalf("push: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Latest(ctx, "cap_1"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestStore_ChannelsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Push(ctx, &Frame{CaptureID: "cap_a", Timestamp: 1, Data: []byte("a")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := store.Push(ctx, &Frame{CaptureID: "cap_b", Timestamp: 2, Data: []byte("b")}); err != nil {
		t.Fatalf("push: %v", err)
	}

	frame, err := store.Latest(ctx, "cap_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !bytes.Equal(frame.Data, []byte("a")) {
		t.Errorf("channel cap_a returned foreign frame %q", frame.Data)
	}
}

func TestStore_LatestFrameAdapter(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Push(ctx, &Frame{CaptureID: "cap_1", Timestamp: 1, Data: []byte("png-bytes")}); err != nil {
		t.Fatalf("push: %v", err)
	}

	data, err := store.LatestFrame(ctx, "cap_1")
	if err != nil {
		t.Fatalf("latest frame: %v", err)
	}
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Errorf("unexpected frame data %q", data)
	}
}
