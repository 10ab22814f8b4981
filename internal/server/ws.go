package server

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/handsign/internal/store"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Close reasons recorded in the session audit log.
const (
	closeClientClosed = "client_closed"
	closeClientGone   = "client_disconnected"
	closeTimeout      = "timeout"
	closeTooLarge     = "message_too_large"
	closeWriteError   = "write_error"
	closeShutdown     = "server_shutdown"
	closeReadError    = "read_error"
)

// client is one accepted websocket connection and its session.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	session *Session
}

func (c *client) writeJSON(payload any, wait time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wait))
	return c.conn.WriteJSON(payload)
}

func (c *client) writeMessage(messageType int, payload []byte, wait time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wait))
	return c.conn.WriteMessage(messageType, payload)
}

// handleWS runs the session loop for one connection. Messages are read and
// answered on this goroutine, so responses leave in the order requests arrive.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}

	session := NewSession(s.engine, s.config.Normalize, s.logger)
	session.RemoteAddr = r.RemoteAddr
	session.metrics = s.metrics

	c := &client{conn: conn, session: session}
	if !s.track(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(s.config.WriteWait))
		conn.Close()
		return
	}
	defer s.untrack(c)

	conn.SetReadLimit(s.config.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	session.logger.Info("session opened", zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go s.keepalive(c, done)

	reason := s.readLoop(c)
	close(done)
	conn.Close()
	session.setState(StateClosed)

	messages, predictions, failures := session.Counts()
	session.logger.Info("session closed",
		zap.String("reason", reason),
		zap.Int64("messages", messages),
		zap.Int64("predictions", predictions),
		zap.Int64("failures", failures),
		zap.Duration("duration", time.Since(session.StartedAt)),
	)
	s.audit(session, reason)
}

// readLoop alternates between AwaitingMessage and Processing until the
// connection ends, and returns the close reason.
func (s *Server) readLoop(c *client) string {
	for {
		c.session.setState(StateAwaitingMessage)
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return s.classifyReadError(c.session, err)
		}

		response := c.session.Handle(payload)
		if err := c.writeJSON(response, s.config.WriteWait); err != nil {
			c.session.logger.Warn("write failed", zap.Error(err))
			return closeWriteError
		}
	}
}

// classifyReadError maps a read error to a close reason. Client disconnects
// are normal terminations; everything else is logged as a warning.
func (s *Server) classifyReadError(session *Session, err error) string {
	if s.closing.Load() {
		return closeShutdown
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseAbnormalClosure:
			session.logger.Info("client disconnected without close frame")
			return closeClientGone
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
		default:
			session.logger.Info("client closed with status", zap.Int("code", closeErr.Code), zap.String("text", closeErr.Text))
		}
		return closeClientClosed
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		session.logger.Warn("message exceeds read limit", zap.Int64("limit", s.config.MaxMessageBytes))
		return closeTooLarge
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		session.logger.Warn("keepalive timeout", zap.Error(err))
		return closeTimeout
	}

	session.logger.Warn("read failed", zap.Error(err))
	return closeReadError
}

// keepalive pings the peer until done is closed or a ping fails.
func (s *Server) keepalive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.writeMessage(websocket.PingMessage, nil, s.config.WriteWait); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

// audit stores the session record when a store is configured. Failures are
// logged and do not affect other sessions.
func (s *Server) audit(session *Session, reason string) {
	if s.config.Store == nil {
		return
	}

	messages, predictions, failures := session.Counts()
	rec := &store.Session{
		ID:          session.ID,
		RemoteAddr:  session.RemoteAddr,
		StartedAt:   session.StartedAt,
		EndedAt:     time.Now(),
		Messages:    messages,
		Predictions: predictions,
		Failures:    failures,
		CloseReason: reason,
	}
	if err := s.config.Store.Sessions().Create(rec); err != nil {
		session.logger.Warn("failed to store session record", zap.Error(err))
	}
}

// track registers an active client. It returns false once shutdown has begun.
func (s *Server) track(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	s.clients[c] = struct{}{}
	s.sessions.Add(1)
	s.metrics.sessionsActive.Add(1)
	s.metrics.sessionsTotal.Add(1)
	return true
}

func (s *Server) untrack(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	s.metrics.sessionsActive.Add(-1)
	s.sessions.Done()
}

// closeClients sends a going-away close frame to every active session.
func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	deadline := time.Now().Add(s.config.WriteWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = c.conn.Close()
	}
}

// ActiveSessions returns the number of open websocket sessions.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
