package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Handler answers decoded host-command requests on behalf of a device.
// Implemented by ecsim.Simulator.
type Handler interface {
	Handle(req *wire.Request) *wire.Response
}

// Server errors.
var (
	ErrServerStarted = errors.New("server already started")
	ErrServerStopped = errors.New("server is stopped")
)

// Server exposes a Handler as an EC bridge on a listening socket.
// Each connection runs its own read-handle-write loop, so independent
// clients get independent sessions; within a session transactions are
// naturally serialized by the loop.
type Server struct {
	handler Handler
	logger  log.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[string]net.Conn
	stopped  bool

	wg sync.WaitGroup
}

// NewServer creates a server for the given handler.
func NewServer(handler Handler) *Server {
	return &Server{
		handler: handler,
		logger:  log.NoopLogger{},
		conns:   make(map[string]net.Conn),
	}
}

// SetLogger configures protocol capture. Pass nil to disable.
func (s *Server) SetLogger(logger log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger == nil {
		logger = log.NoopLogger{}
	}
	s.logger = logger
}

// Start begins accepting connections on the given network and address.
// It returns once the listener is ready; the context stops the server
// when cancelled.
func (s *Server) Start(ctx context.Context, network, addr string) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrServerStopped
	}
	if s.listener != nil {
		s.mu.Unlock()
		return ErrServerStarted
	}

	ln, err := net.Listen(network, addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			_ = s.Stop()
		}()
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Stop closes the listener and all connections and waits for the
// connection loops to finish. It is safe to call multiple times.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}

		connID := uuid.New().String()
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[connID] = conn
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(connID, conn)
	}
}

// serveConn runs the per-connection transaction loop.
func (s *Server) serveConn(connID string, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.conns, connID)
		s.mu.Unlock()
	}()

	for {
		pkt, err := ReadRequestPacket(conn)
		if err != nil {
			// EOF is a normal hangup; anything else is unrecoverable
			// on a packet-oriented stream.
			return
		}
		s.logFrame(connID, pkt, log.DirectionIn)

		var resp *wire.Response
		req, err := wire.DecodeRequestPacket(pkt)
		switch {
		case err == nil:
			resp = s.handler.Handle(req)
		case errors.Is(err, wire.ErrBadChecksum):
			resp = &wire.Response{Result: wire.ResultInvalidChecksum}
		case errors.Is(err, wire.ErrBadStructVersion):
			resp = &wire.Response{Result: wire.ResultInvalidHeader}
		default:
			resp = &wire.Response{Result: wire.ResultInvalidHeader}
		}

		respPkt, err := wire.EncodeResponsePacket(resp)
		if err != nil {
			// A handler response beyond protocol limits cannot be
			// framed; report it as an internal error instead.
			respPkt, _ = wire.EncodeResponsePacket(&wire.Response{Result: wire.ResultError})
		}
		if err := WritePacket(conn, respPkt); err != nil {
			return
		}
		s.logFrame(connID, respPkt, log.DirectionOut)
	}
}

func (s *Server) logFrame(connID string, pkt []byte, dir log.Direction) {
	s.mu.Lock()
	logger := s.logger
	s.mu.Unlock()

	logger.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: connID,
		Direction: dir,
		Frame:     log.NewFrameEvent(pkt),
	})
}
