package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"matchbook/internal/engine"
	"matchbook/internal/server"

	"github.com/rs/zerolog/log"
)

func main() {
	address := flag.String("address", "0.0.0.0", "address to bind the TCP listener to")
	port := flag.Int("port", 8000, "port to listen on")
	ringCapacity := flag.Int("ring-capacity", 0, "per-connection ingress ring capacity (0 = default)")
	workers := flag.Int("workers", 0, "number of connection worker goroutines (0 = default)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New(engine.Equities)
	srv := server.New(server.Config{
		Address:      *address,
		Port:         *port,
		RingCapacity: *ringCapacity,
		NWorkers:     *workers,
	}, eng)

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
