package sync

import (
	"bufio"
	"errors"
	"net"
	"sync"
)

// Server accepts TCP subscribers and registers them with the hub. Incoming
// lines are read and ignored; they only keep the connection alive.
type Server struct {
	Addr string
	Hub  *Hub

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

// Run listens until Close is called. It returns nil after Close, including
// when Close happened before the listener was bound.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	s.Hub.log.Info("tcp sync listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		if err := s.Hub.Welcome(conn); err != nil {
			s.Hub.log.Debug("tcp client dropped before welcome", "addr", conn.RemoteAddr(), "error", err)
			_ = conn.Close()
			continue
		}
		s.Hub.Add(conn)
		s.Hub.log.Debug("tcp client connected", "addr", conn.RemoteAddr())

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.Hub.log.Debug("tcp client disconnected", "addr", c.RemoteAddr())
			}()

			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

// ListenAddr returns the bound address, or "" before Run has started.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops accepting new subscribers. A Run that has not bound yet
// returns as soon as it does.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
