package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// pollTimeout bounds the accept wait so the loop never busy-spins.
	pollTimeout = 10 * time.Millisecond
	// readTimeout is the per-connection non-blocking read window.
	readTimeout = time.Millisecond
	// handshakeTimeout bounds the initial upgrade-request read.
	handshakeTimeout = time.Second

	readBufferSize      = 4096
	handshakeBufferSize = 1024

	// Inbound action budget per connection; frames over the budget are
	// dropped silently.
	messagesPerSecond = rate.Limit(30)
	messageBurst      = 60
)

// Handler receives the event loop's lifecycle callbacks. All invocations
// happen on the loop goroutine: the tick callback first, then at most one
// message per connection per tick.
type Handler interface {
	OnOpen(id string, sender Sender)
	OnMessage(id string, payload []byte, sender Sender)
	OnTick(sender Sender)
	OnClose(id string)
}

// Sender addresses connections by identifier only; identifier-to-conn
// resolution stays inside the event loop.
type Sender interface {
	Send(id string, payload []byte)
	Broadcast(payload []byte)
}

// client is a registry entry: the transport handle plus its inbound
// action limiter.
type client struct {
	conn    net.Conn
	limiter *rate.Limiter
}

// Server is the single-threaded poll loop. It owns the listener and the
// connection registry; sessions never touch a conn directly.
type Server struct {
	logger   *slog.Logger
	handler  Handler
	listener *net.TCPListener
	clients  map[string]*client
	readBuf  []byte
}

func New(logger *slog.Logger, handler Handler) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		handler: handler,
		clients: make(map[string]*client),
		readBuf: make([]byte, readBufferSize),
	}
}

// Start listens on the given port and runs the loop until the context is
// canceled. Everything happens on this one goroutine: accepts, reads,
// callbacks and writes.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	tcpListener, ok := listener.(*net.TCPListener)
	if !ok {
		return fmt.Errorf("unexpected listener type %T", listener)
	}
	that.listener = tcpListener

	defer that.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		that.handler.OnTick(that)
		that.acceptPending()
		that.pollClients()
	}
}

// Send frame-encodes the payload and writes it to one connection. Unknown
// ids and vanished peers are tolerated; cleanup happens on the next
// liveness check.
func (that *Server) Send(id string, payload []byte) {
	entry, ok := that.clients[id]
	if !ok {
		that.logger.Debug("send to unknown connection", "id", id)
		return
	}

	if _, err := entry.conn.Write(EncodeFrame(payload)); err != nil {
		that.logger.Debug("failed to write frame", "id", id, "error", err)
	}
}

// Broadcast frame-encodes the payload once and writes it to every
// registered connection.
func (that *Server) Broadcast(payload []byte) {
	frame := EncodeFrame(payload)

	for id, entry := range that.clients {
		if _, err := entry.conn.Write(frame); err != nil {
			that.logger.Debug("failed to write frame", "id", id, "error", err)
		}
	}
}

// acceptPending waits for a new connection for at most pollTimeout and
// upgrades it in place.
func (that *Server) acceptPending() {
	if err := that.listener.SetDeadline(time.Now().Add(pollTimeout)); err != nil {
		that.logger.Error("failed to arm accept deadline", "error", err)
		return
	}

	conn, err := that.listener.Accept()
	if err != nil {
		if !isTimeout(err) {
			that.logger.Error("failed to accept connection", "error", err)
		}
		return
	}

	that.open(conn)
}

// open runs the handshake on a freshly accepted conn and registers it
// under a new identifier. Identifiers are never reused.
func (that *Server) open(conn net.Conn) {
	log := that.logger.With("method", "open")

	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		log.Error("failed to arm handshake deadline", "error", err)
		_ = conn.Close()
		return
	}

	request := make([]byte, handshakeBufferSize)
	n, err := conn.Read(request)
	if err != nil {
		log.Error("failed to read upgrade request", "error", err)
		_ = conn.Close()
		return
	}

	response, err := PerformHandshake(request[:n])
	if err != nil {
		log.Error("handshake rejected", "error", err)
		_ = conn.Close()
		return
	}

	if _, err = conn.Write(response); err != nil {
		log.Error("failed to write upgrade response", "error", err)
		_ = conn.Close()
		return
	}

	id := uuid.NewString()
	that.clients[id] = &client{
		conn:    conn,
		limiter: rate.NewLimiter(messagesPerSecond, messageBurst),
	}

	log.Info("connection established", "id", id, "remote", conn.RemoteAddr())

	that.handler.OnOpen(id, that)
}

// pollClients gives every connection one bounded read. A successful read
// decodes at most one frame; a failed read other than a timeout means the
// peer is gone.
func (that *Server) pollClients() {
	for id, entry := range that.clients {
		if err := entry.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			that.close(id, entry)
			continue
		}

		n, err := entry.conn.Read(that.readBuf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			that.close(id, entry)
			continue
		}

		if n == 0 {
			continue
		}

		if !entry.limiter.Allow() {
			continue
		}

		payload := DecodeFrame(that.readBuf[:n])
		if len(payload) == 0 {
			continue
		}

		that.handler.OnMessage(id, payload, that)
	}
}

func (that *Server) close(id string, entry *client) {
	that.handler.OnClose(id)
	_ = entry.conn.Close()
	delete(that.clients, id)

	that.logger.Info("connection closed", "id", id)
}

func (that *Server) closeAll() {
	for id, entry := range that.clients {
		that.close(id, entry)
	}

	if that.listener != nil {
		_ = that.listener.Close()
	}
}

func isTimeout(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
