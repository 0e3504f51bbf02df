package kit_test

import (
	"net/http"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"

	"WoodLoft/pkg/kit"
)

func TestRunHTTPServer_ListenError(t *testing.T) {
	err := kit.RunHTTPServer(
		kit.ServerOpts{Addr: "256.256.256.256:0"},
		http.NewServeMux(),
		zap.NewNop(),
	)
	if err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRunHTTPServer_StopsOnSignal(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		done <- kit.RunHTTPServer(
			kit.ServerOpts{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
			http.NewServeMux(),
			zap.NewNop(),
		)
	}()

	// Give the listener and signal handler time to come up.
	time.Sleep(200 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("shutdown returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop on SIGTERM")
	}
}
