package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"matchup-lab/internal/domain"
)

// ComputePickID computes a deterministic pick_id using SHA256.
// Formula: SHA256(game_id|market|direction)
// Returns hex-encoded hash (64 characters).
//
// One game can carry at most one pick per market, so direction is part of
// the identity only to keep re-runs that flip a lean from silently
// overwriting history: a changed direction is a new pick, and the insert
// of the old one still stands.
func ComputePickID(gameID string, market domain.Market, direction domain.Direction) string {
	data := fmt.Sprintf("%s|%s|%s",
		gameID,
		string(market),
		string(direction),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
