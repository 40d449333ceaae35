package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []Entry
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(Entry))
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeCollection) entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.docs...)
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)

	WithCtx(ctx).Info("order placed", "order_no", "ARS1001")
	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "order_no=ARS1001")
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, slog.LevelInfo)

	log := slog.New(h).With("request_id", "rid-1")
	log.Debug("dropped by level")
	log.WithGroup("order").Info("status changed", "status", "shipped")

	require.NoError(t, h.Close(context.Background()))

	got := col.entries()
	require.Len(t, got, 1)
	assert.Equal(t, "status changed", got[0].Msg)
	assert.Equal(t, "rid-1", got[0].RequestID)
	assert.Equal(t, "shipped", got[0].Attrs["order.status"])
	assert.WithinDuration(t, time.Now(), got[0].Time, time.Minute)
}

func TestFanOutRespectsLevels(t *testing.T) {
	var info, warn bytes.Buffer
	h := FanOut{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
	log := slog.New(h)

	log.Info("catalog cache miss")
	log.Warn("image release failed")

	assert.Contains(t, info.String(), "catalog cache miss")
	assert.Contains(t, info.String(), "image release failed")
	assert.NotContains(t, warn.String(), "catalog cache miss")
	assert.Contains(t, warn.String(), "image release failed")
}
