package tui

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestSSHServerListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen failed: %v", err)
	}
	defer busy.Close()

	server, err := NewSSHServer(SSHServerConfig{
		Address:     busy.Addr().String(),
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
		Logger:      log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewSSHServer failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error for an address already in use")
		}
		if ctx.Err() != nil {
			t.Fatalf("ListenAndServe returned only after the context ended: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ListenAndServe did not return after the listener failed")
	}
}
