// Package id generates display identifiers for attack-flow nodes.
//
// A display ID is the stable handle the consuming layer uses to reference a
// node; the model-assigned original ID is neither guaranteed unique nor
// stable in form. IDs take the shape:
//
//	node:{base64url(sha256(salt + original_id)[:12])}
//
// Generation is deterministic per Generator (and therefore per session), so
// the same original ID always maps to the same display ID no matter how many
// times the model repeats it, while the random per-generator salt keeps IDs
// opaque and distinct across sessions.
package id
