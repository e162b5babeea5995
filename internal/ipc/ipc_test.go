package ipc

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSocketPath(t *testing.T) {
	tests := []struct {
		name    string
		socket  string
		runtime string
		want    string
	}{
		{"override", "/x/y.sock", "/run/user/1", "/x/y.sock"},
		{"runtime dir", "", "/run/user/1", "/run/user/1/textassist.sock"},
		{"temp", "", "", filepath.Join(os.TempDir(), "textassist.sock")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEXTASSIST_SOCKET", tt.socket)
			t.Setenv("XDG_RUNTIME_DIR", tt.runtime)
			if got := SocketPath(); got != tt.want {
				t.Errorf("SocketPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	path := filepath.Join(t.TempDir(), "ta.sock")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen over stale file: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	if !IsRunning(path) {
		t.Error("IsRunning = false with a listener")
	}
	if _, err := Listen(path); err == nil {
		t.Error("second Listen should fail while the first is serving")
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("socket mode = %v, want 0600", perm)
	}
}

func TestIsRunningNoSocket(t *testing.T) {
	if IsRunning(filepath.Join(t.TempDir(), "missing.sock")) {
		t.Error("IsRunning = true for a missing socket")
	}
}
