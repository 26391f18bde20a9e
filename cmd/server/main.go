package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"

	"autotile-studio/internal/config"
	"autotile-studio/internal/server"
	"autotile-studio/internal/workspace"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	verbose := flag.Bool("v", false, "log workspace events")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Config error: %v", err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}

	if err := ensureHostKey(cfg.Server.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ws, st, err := workspace.FromConfig(cfg, logger)
	if err != nil {
		log.Fatalf("Workspace error: %v", err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := ws.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Workspace stopped: %v", err)
		}
	}()
	defer ws.Stop()

	sshServer := server.NewSSHServer(cfg.Server.Addr, cfg.Server.HostKey, ws)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		sshServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Editing tileset %q, connect with: ssh -t -p %s YourName@localhost", cfg.Tileset.ID, portOf(cfg.Server.Addr))
	if err := sshServer.Start(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Fatalf("SSH server error: %v", err)
	}

	if err := ws.Save(); err != nil {
		log.Printf("Save on exit failed: %v", err)
	} else {
		log.Printf("Tileset %q saved", cfg.Tileset.ID)
	}
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
}
