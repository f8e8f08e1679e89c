package server

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"matchbook/internal/engine"
	"matchbook/internal/wire"

	"github.com/stretchr/testify/require"
)

func dialAndSend(t *testing.T, addr string, payload []byte) []byte {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	_, err = conn.Write(frame)
	require.NoError(t, err)

	resp := make([]byte, 512)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := conn.Read(resp)
	require.NoError(t, err)
	return resp[:n]
}

func TestServerRoundTripsNewOrder(t *testing.T) {
	eng := engine.New(engine.Equities)
	srv := New(Config{Address: "127.0.0.1", Port: 18181, RingCapacity: 16, NWorkers: 2}, eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	resp := dialAndSend(t, "127.0.0.1:18181", wire.EncodeNewOrder(engine.Equities, engine.GoodTillCancel, engine.Buy, 100, 5))
	require.GreaterOrEqual(t, len(resp), 4)
	status := binary.BigEndian.Uint32(resp[:4])
	require.EqualValues(t, wire.StatusSuccess, status)
}

func TestServerReportsBadMessageLength(t *testing.T) {
	eng := engine.New(engine.Equities)
	srv := New(Config{Address: "127.0.0.1", Port: 18182, RingCapacity: 16, NWorkers: 2}, eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	conn, err := net.DialTimeout("tcp", "127.0.0.1:18182", time.Second)
	require.NoError(t, err)
	defer conn.Close()

	badFrame := make([]byte, 4)
	binary.LittleEndian.PutUint32(badFrame, 0)
	_, err = conn.Write(badFrame)
	require.NoError(t, err)

	resp := make([]byte, 512)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := conn.Read(resp)
	require.NoError(t, err)
	status := binary.BigEndian.Uint32(resp[:n][:4])
	require.EqualValues(t, wire.StatusBadMessageLength, status)
}
