package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type written struct {
	kind int
	data []byte
}

// fakeConn blocks reads until closed and records writes.
type fakeConn struct {
	mu     sync.Mutex
	writes []written
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, written{kind: kind, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                       {}
func (f *fakeConn) SetReadDeadline(time.Time) error          { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error         { return nil }
func (f *fakeConn) SetPongHandler(func(appData string) error) {}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) snapshot() []written {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]written(nil), f.writes...)
}

func TestServeWritesInitialThenPushedFrames(t *testing.T) {
	h := startHub(t, nil)
	conn := newFakeConn()

	done := make(chan struct{})
	go func() {
		serve(h, conn, "s1", []byte(`{"type":"view","data":{"selectedId":"foil-01"}}`))
		close(done)
	}()
	require.Eventually(t, func() bool { return h.Connected("s1") == 1 }, time.Second, time.Millisecond)

	h.SendToSession("s1", []byte(`{"type":"view","data":{"selectedId":"sabre-01"}}`))
	require.Eventually(t, func() bool { return len(conn.snapshot()) == 2 }, time.Second, time.Millisecond)

	writes := conn.snapshot()
	assert.Equal(t, websocket.TextMessage, writes[0].kind)
	assert.JSONEq(t, `{"type":"view","data":{"selectedId":"foil-01"}}`, string(writes[0].data))
	assert.JSONEq(t, `{"type":"view","data":{"selectedId":"sabre-01"}}`, string(writes[1].data))

	h.DisconnectSession("s1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve did not return after disconnect")
	}
	require.Eventually(t, func() bool {
		w := conn.snapshot()
		return len(w) == 3 && w[2].kind == websocket.CloseMessage
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, h.Connected("s1"))
}
