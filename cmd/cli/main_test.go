package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thebank/coreledger/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestTokenCommand(t *testing.T) {
	cmd := tokenCommand()
	cmd.SetArgs([]string{"--user", "user-1", "--secret", "test-secret", "--expiry", "1h"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	signed := strings.TrimSpace(out)
	if signed == "" {
		t.Fatal("expected a token on stdout")
	}

	claims, err := auth.NewJWTManager("test-secret", time.Hour).Verify(signed)
	if err != nil {
		t.Fatalf("generated token failed verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1 claim, got %q", claims.UserID)
	}
}
