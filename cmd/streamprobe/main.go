// streamprobe connects to the notification WebSocket and dumps the raw
// frame stream to the console. It bypasses the store and the reconnect
// scheduler, so it is useful for inspecting exactly what the server sends.
//
// Usage: go run ./cmd/streamprobe --token "$FARMAEASY_TOKEN" [--host host:port]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/config"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/connection"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/dispatch"
)

func main() {
	host := flag.String("host", "", "server host[:port], empty = local dev server")
	tls := flag.Bool("tls", false, "use wss:// and https://")
	token := flag.String("token", "", "bearer token")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if *token == "" {
		logger.Error("a bearer token is required", "flag", "--token")
		os.Exit(1)
	}

	cfg := config.Default()
	if *host != "" {
		cfg.Server.Host = *host
		cfg.Server.TLS = *tls
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	url := cfg.WSEndpoint(*token)
	client := connection.NewClient(url, cfg.Connection, logger)

	dialCtx, dialCancel := context.WithTimeout(ctx, cfg.Connection.HandshakeTimeout)
	defer dialCancel()
	if err := client.Connect(dialCtx); err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Close(connection.CloseNormal)

	logger.Info("connected, streaming frames")

	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-client.Frames():
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), raw)
			answerPing(raw, client, logger)
		case ev := <-client.Closed():
			logger.Info("connection closed", "code", ev.Code, "reason", ev.Reason)
			return
		}
	}
}

// answerPing replies to server pings so the probe is not dropped for
// inactivity during long observation sessions.
func answerPing(raw []byte, reply dispatch.Sender, logger *slog.Logger) {
	if !dispatch.IsPing(raw) {
		return
	}
	if err := reply.Send(dispatch.PongFrame()); err != nil {
		logger.Warn("pong failed", "error", err)
	}
}
