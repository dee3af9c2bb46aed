package observability

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger for production and a text logger for
// local runs.
func NewLogger(w io.Writer, level slog.Level, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// IPHasher turns client addresses into stable, non-reversible tokens so
// request logs never hold raw IPs. The salt lives only in memory, so tokens
// change on every restart.
type IPHasher struct {
	salt string
}

func NewIPHasher() (*IPHasher, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return &IPHasher{salt: hex.EncodeToString(b)}, nil
}

// Hash returns the first 16 hex characters of sha256(ip + salt).
func (h *IPHasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}
