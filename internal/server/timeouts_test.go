package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yanizio/themable/internal/config"
)

func TestNew_AppliesConfig(t *testing.T) {
	cfg := config.HTTP{
		ListenAddr:   ":0",
		ReadTimeout:  time.Second,
		WriteTimeout: 2 * time.Second,
		IdleTimeout:  3 * time.Second,
	}
	srv := New(cfg, http.NotFoundHandler())
	if srv.Addr != ":0" || srv.ReadTimeout != time.Second ||
		srv.WriteTimeout != 2*time.Second || srv.IdleTimeout != 3*time.Second {
		t.Fatalf("unexpected server: %+v", srv)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: "127.0.0.1:0"}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(ShutdownGrace + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
