package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeGameID computes a deterministic game_id using SHA256.
// Formula: SHA256(league|date|home_team|away_team)
// Returns hex-encoded hash (64 characters).
//
// The date contributes only its calendar day, so re-imports with differing
// timestamps still converge on the same ID.
func ComputeGameID(league string, gameDate time.Time, homeTeam, awayTeam string) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		league,
		gameDate.Format("2006-01-02"),
		homeTeam,
		awayTeam,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
