package web

import (
	"bytes"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/video"
)

// stubSource replays one small frame forever.
type stubSource struct{}

func (stubSource) NewReader(copyFrame bool) (video.Reader, error) {
	var seq uint64
	return video.ReaderFunc(func() (*frame.Raw, func(), error) {
		seq++
		return &frame.Raw{
			Pix:    make([]byte, 8*2),
			Width:  8,
			Height: 2,
			Format: frame.FormatRaw8,
			Seq:    seq,
		}, func() {}, nil
	}), nil
}

func wsURL(httpURL, path string) string {
	return strings.Replace(httpURL, "http", "ws", 1) + path
}

func TestFramesEndpointDeliversPNG(t *testing.T) {
	srv := httptest.NewServer(NewServer(stubSource{}).Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv.URL, "/frames"), nil)
	require.NoError(t, err)
	defer conn.Close()

	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestStatusEndpoint(t *testing.T) {
	server := NewServer(stubSource{})
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv.URL, "/status"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription happens in the handler goroutine, so keep
	// broadcasting until the single blocking read below sees a message
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				server.Status().Broadcast("info", "exposure started")
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "exposure started")
}

func TestStatusBroadcasterDropsSlowClients(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	// fill the buffer past capacity; Broadcast must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Broadcast("info", "msg")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	// the subscriber still sees the buffered prefix
	select {
	case msg := <-ch:
		assert.Contains(t, msg, "msg")
	default:
		t.Fatal("expected buffered messages")
	}
}
