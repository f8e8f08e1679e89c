// Package server wires the matching engine to the network: a TCP
// accept loop hands each connection to a worker pool, whose read
// handlers frame incoming bytes and push them into a per-connection
// ring; a single matching goroutine drains those rings in rotation so
// every order ever reaches the book through one thread.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"matchbook/internal/engine"
	"matchbook/internal/ring"
	"matchbook/internal/utils"
	"matchbook/internal/wire"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	defaultNWorkers          = 10
	defaultRingCapacity      = 100_000
	defaultReadChunkSize     = 4096
	defaultMaxBytesPerHandle = 100_000
	defaultConnTimeout       = 50 * time.Millisecond
	idlePollInterval         = time.Millisecond
)

// Config carries the server's construction-time parameters.
type Config struct {
	Address           string
	Port              int
	NWorkers          int
	RingCapacity      int
	MaxBytesPerHandle int
}

func (c Config) withDefaults() Config {
	if c.NWorkers == 0 {
		c.NWorkers = defaultNWorkers
	}
	if c.RingCapacity == 0 {
		c.RingCapacity = defaultRingCapacity
	}
	if c.MaxBytesPerHandle == 0 {
		c.MaxBytesPerHandle = defaultMaxBytesPerHandle
	}
	return c
}

// client bundles the state a single accepted connection needs: its
// socket, its SPSC ingress ring, and the framer assembling frames out
// of its byte stream.
type client struct {
	conn   net.Conn
	ring   *ring.Ring[[]byte]
	framer *wire.Framer
	addr   string
}

// Server accepts connections, fans their bytes into per-connection
// rings via a worker pool, and drains those rings from a single
// matching goroutine into the engine.
type Server struct {
	cfg    Config
	engine *engine.Engine
	pool   utils.WorkerPool

	mu         sync.Mutex
	clients    map[string]*client
	clientList []*client
	rrIndex    int

	cancel context.CancelFunc
}

// New constructs a Server bound to eng.
func New(cfg Config, eng *engine.Engine) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		cfg:     cfg,
		engine:  eng,
		pool:    utils.NewWorkerPool(cfg.NWorkers),
		clients: make(map[string]*client),
	}
}

// Shutdown stops the accept loop and all worker/matching goroutines.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Run blocks, serving until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("unable to start listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		return s.dispatchLoop(t)
	})

	log.Info().Str("address", s.cfg.Address).Int("port", s.cfg.Port).Msg("server listening")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					log.Error().Err(err).Msg("error accepting client")
					continue
				}
			}
			s.registerClient(conn)
			s.pool.AddTask(conn)
		}
	}
}

func (s *Server) registerClient(conn net.Conn) *client {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &client{
		conn:   conn,
		ring:   ring.New[[]byte](s.cfg.RingCapacity),
		framer: wire.NewFramer(),
		addr:   conn.RemoteAddr().String(),
	}
	s.clients[c.addr] = c
	s.clientList = append(s.clientList, c)
	log.Info().Str("address", c.addr).Msg("client connected")
	return c
}

func (s *Server) deregisterClient(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, addr)
	for i, c := range s.clientList {
		if c.addr == addr {
			s.clientList = append(s.clientList[:i], s.clientList[i+1:]...)
			break
		}
	}
	if s.rrIndex >= len(s.clientList) {
		s.rrIndex = 0
	}
}

// nextClient returns the next client in round-robin order, or nil if
// there are none registered.
func (s *Server) nextClient() *client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clientList) == 0 {
		return nil
	}
	c := s.clientList[s.rrIndex%len(s.clientList)]
	s.rrIndex++
	return c
}

// handleConnection is a worker-pool task: it reads one batch of bytes
// (bounded by MaxBytesPerHandle), feeds them through the connection's
// framer, pushes any complete frames into the connection's ring, and
// re-queues itself so another worker picks up the next batch. A read
// timeout is not fatal — it just means there was nothing to read yet.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("worker task is not a net.Conn: %T", task)
	}
	addr := conn.RemoteAddr().String()

	s.mu.Lock()
	c, ok := s.clients[addr]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	buf := make([]byte, defaultReadChunkSize)
	totalRead := 0
	for totalRead < s.cfg.MaxBytesPerHandle {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
			s.closeClient(c)
			return nil
		}

		n, err := conn.Read(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				break
			}
			s.closeClient(c)
			return nil
		}
		totalRead += n

		frames, ferr := c.framer.Feed(buf[:n])
		for _, frame := range frames {
			if !c.ring.TryPush(frame) {
				log.Warn().Str("address", addr).Msg("ingress ring full, dropping frame")
			}
		}
		if ferr != nil {
			s.writeReport(c, wire.EncodeReport(wire.StatusBadMessageLength, []byte(ferr.Error())))
		}
	}

	s.pool.AddTask(conn)
	return nil
}

func (s *Server) closeClient(c *client) {
	if err := c.conn.Close(); err != nil {
		log.Error().Err(err).Str("address", c.addr).Msg("error closing connection")
	}
	s.deregisterClient(c.addr)
}

// dispatchLoop is the single matching goroutine. It round-robins over
// registered clients, pops at most one frame per visit, and runs it
// through the book.
func (s *Server) dispatchLoop(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		c := s.nextClient()
		if c == nil {
			time.Sleep(idlePollInterval)
			continue
		}

		frame, ok := c.ring.TryPop()
		if !ok {
			continue
		}
		s.handleFrame(c, frame)
	}
}

func (s *Server) handleFrame(c *client, frame []byte) {
	req, err := wire.ParseRequest(frame)
	if err != nil {
		s.writeReport(c, wire.EncodeReport(wire.StatusBadMessageLength, []byte(err.Error())))
		return
	}

	switch r := req.(type) {
	case wire.NewOrderRequest:
		id, trades, err := s.engine.AddOrder(r.Asset, r.Quantity, r.Price, r.OrderType, r.Side)
		s.reportOrderOutcome(c, id, trades, err)

	case wire.CancelOrderRequest:
		if err := s.engine.CancelOrder(r.Asset, r.OrderID); err != nil {
			s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeRejectionPayload(err.Error())))
			return
		}
		s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeCancelPayload()))

	case wire.ModifyOrderRequest:
		id, trades, err := s.engine.ModifyOrder(r.Asset, r.OrderID, r.Mod)
		s.reportOrderOutcome(c, id, trades, err)

	case wire.LogBookRequest:
		bids, asks, ok := s.engine.Depth(r.Asset)
		if !ok {
			s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeRejectionPayload("unknown asset")))
			return
		}
		s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeDepthPayload(bids, asks)))

	default:
		s.writeReport(c, wire.EncodeReport(wire.StatusSystemError, []byte("unhandled request type")))
	}
}

func (s *Server) reportOrderOutcome(c *client, id uint64, trades []engine.Trade, err error) {
	if err != nil {
		s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeRejectionPayload(err.Error())))
		return
	}
	s.writeReport(c, wire.EncodeReport(wire.StatusSuccess, wire.EncodeNewOrderPayload(id, trades)))
}

func (s *Server) writeReport(c *client, report []byte) {
	if _, err := c.conn.Write(report); err != nil {
		log.Error().Err(err).Str("address", c.addr).Msg("unable to write report")
	}
}
