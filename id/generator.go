package id

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/google/uuid"
)

// prefixLen is the number of hash bytes kept in a display ID. Twelve bytes
// (16 base64url characters) is ample for session-scoped uniqueness while
// keeping IDs compact.
const prefixLen = 12

// Generator produces display identifiers for graph nodes.
//
// Display IDs are content-addressed within a session: the same original ID
// always yields the same display ID for one Generator, so re-registration is
// stable, while the per-generator salt keeps IDs from colliding or being
// guessable across sessions.
type Generator struct {
	salt string
}

// NewGenerator creates a Generator with a random per-session salt.
func NewGenerator() *Generator {
	return &Generator{salt: uuid.NewString()}
}

// DisplayID returns the display identifier for a model-assigned original ID.
// The result is deterministic for this Generator. If originalID is empty the
// model failed to identify the node; a random ID is issued instead.
func (g *Generator) DisplayID(originalID string) string {
	if originalID == "" {
		return g.Random()
	}
	sum := sha256.Sum256([]byte(g.salt + ":" + originalID))
	return "node:" + base64.RawURLEncoding.EncodeToString(sum[:prefixLen])
}

// Random returns a fresh, non-deterministic display identifier.
func (g *Generator) Random() string {
	return "node:" + uuid.NewString()
}
