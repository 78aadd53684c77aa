// Package oscserver receives OSC control messages over UDP and forwards
// them to an update target.
package oscserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/hypebeast/go-osc/osc"
)

// maxPacketSize is the largest UDP payload.
const maxPacketSize = 65535

// ErrNoValue is returned for a message without a numeric first argument.
var ErrNoValue = errors.New("message has no numeric argument")

// Updater receives (address, value) updates.
type Updater interface {
	OnUpdate(address string, value float64) error
	Addresses() []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for transport and rejected messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server forwards OSC messages to an Updater. Messages, including those
// inside bundles, are handled in arrival order on the serving goroutine.
// Addresses are matched exactly; OSC patterns are not expanded.
type Server struct {
	addr   string
	target Updater
	logger *slog.Logger
	routes map[string]struct{}

	received atomic.Uint64
	rejected atomic.Uint64
	ignored  atomic.Uint64
}

// New creates a server for addr (host:port) that accepts every address of
// target.
func New(addr string, target Updater, opts ...Option) (*Server, error) {
	if target == nil {
		return nil, errors.New("oscserver: nil target")
	}

	s := &Server{
		addr:   addr,
		target: target,
		logger: slog.New(slog.DiscardHandler),
		routes: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	for _, address := range target.Addresses() {
		s.routes[address] = struct{}{}
	}
	return s, nil
}

// Received returns the number of messages that reached the target.
func (s *Server) Received() uint64 { return s.received.Load() }

// Rejected returns the number of messages whose value was refused.
func (s *Server) Rejected() uint64 { return s.rejected.Load() }

// Ignored returns the number of messages with an unregistered address.
func (s *Server) Ignored() uint64 { return s.ignored.Load() }

// ListenAndServe binds the UDP address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return fmt.Errorf("oscserver: listen %s: %w", s.addr, err)
	}
	s.logger.Info("listening", "addr", conn.LocalAddr().String())
	return s.Serve(ctx, conn)
}

// Serve reads packets from conn until ctx is done or conn fails. It closes
// conn on return.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()

	buf := make([]byte, maxPacketSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("oscserver: read: %w", err)
		}

		packet, err := parsePacket(buf[:n])
		if err != nil {
			s.logger.Warn("malformed packet", "from", from.String(), "bytes", n, "err", err)
			continue
		}
		s.Dispatch(packet)
	}
}

// parsePacket decodes one datagram. A panic inside the decoder is returned
// as an error.
func parsePacket(b []byte) (packet osc.Packet, err error) {
	defer func() {
		if r := recover(); r != nil {
			packet, err = nil, fmt.Errorf("decode: %v", r)
		}
	}()
	return osc.ParsePacket(string(b))
}

// Dispatch routes one decoded packet to the target. Bundle time tags are
// ignored: a bundle's messages apply immediately, followed by its nested
// bundles.
func (s *Server) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		s.handle(p)
	case *osc.Bundle:
		for _, msg := range p.Messages {
			s.handle(msg)
		}
		for _, b := range p.Bundles {
			s.Dispatch(b)
		}
	}
}

func (s *Server) handle(msg *osc.Message) {
	if msg == nil {
		return
	}
	if _, ok := s.routes[msg.Address]; !ok {
		s.ignored.Add(1)
		s.logger.Debug("ignored message", "address", msg.Address)
		return
	}
	s.received.Add(1)

	v, err := Value(msg)
	if err == nil {
		err = s.target.OnUpdate(msg.Address, v)
	}
	if err != nil {
		s.rejected.Add(1)
		s.logger.Warn("rejected message", "address", msg.Address, "args", len(msg.Arguments), "err", err)
	}
}

// Value extracts the first argument of msg as a float64. Integer, float and
// boolean arguments are accepted.
func Value(msg *osc.Message) (float64, error) {
	if msg == nil || len(msg.Arguments) == 0 {
		return 0, ErrNoValue
	}

	switch v := msg.Arguments[0].(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("argument of type %T: %w", v, ErrNoValue)
	}
}
