package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvent(t *testing.T, r *bufio.Reader) (name, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestBroker_StreamsPublishedEvents(t *testing.T) {
	b := NewBroker(0)
	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return b.Clients() == 1 }, time.Second, 5*time.Millisecond)

	b.Publish("order.placed", map[string]string{"orderNo": "ARS1001"})

	name, data := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "order.placed", name)
	assert.JSONEq(t, `{"orderNo":"ARS1001"}`, data)

	cancel()
	require.Eventually(t, func() bool { return b.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBroker_HeartbeatComments(t *testing.T) {
	b := NewBroker(10 * time.Millisecond)
	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": ping\n", line)
	b.Close()
}

func TestBroker_CloseEndsStreams(t *testing.T) {
	b := NewBroker(0)
	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return b.Clients() == 1 }, time.Second, 5*time.Millisecond)

	b.Close()
	require.Eventually(t, func() bool { return b.Clients() == 0 }, time.Second, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBroker_PublishWithoutClientsIsNoop(t *testing.T) {
	b := NewBroker(0)
	assert.NotPanics(t, func() {
		for i := 0; i < 100; i++ {
			b.Publish("order.deleted", i)
		}
	})
	assert.Equal(t, 0, b.Clients())
}
