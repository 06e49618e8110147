// Package web serves a live preview of a running camera: PNG frames over
// one websocket, status events over another.
package web

import (
	"bytes"
	"image/png"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pion/camctl/internal/logging"
	"github.com/pion/camctl/pkg/video"
)

var logger = logging.NewLogger("web")

// FrameSource hands out readers on a running stream. The camctl Camera
// satisfies it.
type FrameSource interface {
	NewReader(copyFrame bool) (video.Reader, error)
}

// Server exposes the preview endpoints.
type Server struct {
	source   FrameSource
	status   *StatusBroadcaster
	upgrader websocket.Upgrader
}

// NewServer builds a preview server over a camera whose stream has been
// started.
func NewServer(source FrameSource) *Server {
	return &Server{
		source: source,
		status: NewStatusBroadcaster(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
		},
	}
}

// Status returns the broadcaster callers push status lines into.
func (s *Server) Status() *StatusBroadcaster {
	return s.status
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", s.handleFrames)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// ListenAndServe blocks serving the preview on addr.
func (s *Server) ListenAndServe(addr string) error {
	logger.Infof("preview listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleFrames pushes each broadcast frame as a binary PNG message. The
// reader skips frames while the encoder or the socket is behind, so a
// slow client sees a lower rate, never a growing backlog.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	reader, err := s.source.NewReader(false)
	if err != nil {
		logger.Warnf("frames: %v", err)
		return
	}

	var buf bytes.Buffer
	for {
		f, release, err := reader.Read()
		if err != nil {
			logger.Infof("frames: stream ended: %v", err)
			return
		}

		img, err := f.Image()
		release()
		if err != nil {
			logger.Warnf("frames: %v", err)
			return
		}

		buf.Reset()
		if err := png.Encode(&buf, img); err != nil {
			logger.Warnf("frames: encode: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			return
		}
	}
}

// handleStatus pushes broadcast status lines as JSON text messages.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	ch, unsub := s.Status().Subscribe()
	defer unsub()

	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return
		}
	}
}
