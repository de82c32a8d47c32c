package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dshills/pixed/internal/engine/history"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Logger is the logging surface the server writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Default settings.
const (
	DefaultWidth    = 40
	DefaultHeight   = 40
	DefaultMaxFrame = 4096
	DefaultMaxCells = 1 << 20
	DefaultPath     = "/ws"

	writeTimeout = 5 * time.Second
)

// Server accepts websocket connections, each with its own history.
type Server struct {
	width, height int
	maxFrame      int64
	maxCells      int
	logger        Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
	http     *http.Server
	closed   bool
}

// Option configures a Server.
type Option func(*Server)

// WithSize sets the canvas size for new connections.
func WithSize(width, height int) Option {
	return func(s *Server) {
		s.width = width
		s.height = height
	}
}

// WithMaxFrame limits the size of incoming command frames.
func WithMaxFrame(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxFrame = int64(n)
		}
	}
}

// WithMaxCells limits the canvas size a client may clear to.
// Limits above the frame header range are clamped to it.
func WithMaxCells(n int) Option {
	return func(s *Server) {
		if n <= 0 {
			return
		}
		if uint64(n) > math.MaxUint32 {
			n = math.MaxUint32
		}
		s.maxCells = n
	}
}

// WithLogger sets the server logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCheckOrigin overrides the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		width:    DefaultWidth,
		height:   DefaultHeight,
		maxFrame: DefaultMaxFrame,
		maxCells: DefaultMaxCells,
		logger:   nopLogger{},
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(DefaultPath, s.handleWS)
	return mux
}

// Serve accepts connections on ln until ctx is done or Shutdown is called.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.http
	s.mu.Unlock()

	// The watcher exits before Serve returns.
	stopped := make(chan struct{})
	watched := make(chan struct{})
	defer func() {
		close(stopped)
		<-watched
	}()
	go func() {
		defer close(watched)
		select {
		case <-ctx.Done():
			s.Shutdown(context.Background())
		case <-stopped:
		}
	}()

	s.logger.Info("serving websocket on %s%s", ln.Addr(), DefaultPath)
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return ErrServerClosed
	}
	return err
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Shutdown stops accepting connections and closes open sessions.
func (s *Server) Shutdown(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	srv := s.http
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	if srv != nil {
		_ = srv.Shutdown(ctx)
	}
	// Hijacked websocket connections are not closed by http.Server
	for _, sess := range sessions {
		sess.close()
	}
}

// Sessions returns the number of open connections.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	if !fitsCells(s.width, s.height, s.maxCells) {
		err := fmt.Errorf("%dx%d canvas exceeds %d cells", s.width, s.height, s.maxCells)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hist, err := history.New(s.width, s.height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		s.logger.Warn("upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(s.maxFrame)

	id := uuid.NewString()
	sess := &session{
		id:       id,
		conn:     conn,
		history:  hist,
		maxCells: s.maxCells,
	}
	if !s.register(sess) {
		sess.close()
		return
	}
	defer s.unregister(sess)

	s.logger.Info("session %s connected from %s", id, r.RemoteAddr)
	sess.run(s.logger)
	s.logger.Info("session %s closed", id)
}

func (s *Server) register(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess.id] = sess
	return true
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
}

// session is one connection and its history. Only the read loop touches
// the history.
type session struct {
	id       string
	conn     *websocket.Conn
	history  *history.History
	maxCells int

	closeOnce sync.Once
}

func (sess *session) run(log Logger) {
	if err := sess.sendFrame(); err != nil {
		return
	}

	for {
		mt, data, err := sess.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("session %s read: %v", sess.id, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			if err := sess.sendError(ErrBadCommand); err != nil {
				return
			}
			continue
		}

		if err := sess.handle(data, log); err != nil {
			log.Debug("session %s write: %v", sess.id, err)
			return
		}
	}
}

// handle applies one command and writes the reply. Only write errors are
// returned; command errors are reported to the client.
func (sess *session) handle(data []byte, log Logger) error {
	cmd, err := ParseCommand(data)
	if err == nil {
		err = cmd.CheckSize(sess.maxCells)
	}
	if err != nil {
		return sess.sendError(err)
	}
	if err := Apply(sess.history, cmd); err != nil {
		log.Debug("session %s %s: %v", sess.id, cmd.Op, err)
		return sess.sendError(err)
	}
	if cmd.Op == OpHistory {
		return sess.write(websocket.TextMessage, HistoryReply(sess.id, sess.history))
	}
	return sess.sendFrame()
}

func (sess *session) sendFrame() error {
	frame, err := EncodeFrame(sess.history.Current())
	if err != nil {
		return sess.sendError(err)
	}
	return sess.write(websocket.BinaryMessage, frame)
}

func (sess *session) sendError(err error) error {
	return sess.write(websocket.TextMessage, ErrorReply(err))
}

func (sess *session) write(mt int, data []byte) error {
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return sess.conn.WriteMessage(mt, data)
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		_ = sess.conn.Close()
	})
}
