package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/service/auth"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// GameClaimsContextKey is the context key for the validated game token claims
	GameClaimsContextKey ContextKey = "gameClaims"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes in a trace ID
	TraceIDLength = 16 // 32 hex characters
)

var fallbackCounter atomic.Uint32

// SetTraceID adds a new trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" when none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SetGameClaims stores validated token claims in the context.
func SetGameClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, GameClaimsContextKey, claims)
}

// GetGameClaims returns the claims stored by the auth middleware.
func GetGameClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(GameClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// generateTraceID returns a random v4 UUID as 32 hex characters. If the
// random source fails it falls back to a time and counter based ID.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID",
			redact.Attr(err),
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(id[:])
}

func generateFallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackCounter.Add(1))
	binary.BigEndian.PutUint32(b[12:16], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}
