// Package models defines the core data structures for leaderboard scores
// and their receipts.
package models

// ScoreRecord is the receipt stored for every accepted submission.
// It is serialized as JSON into the receipt index, keyed by its hash.
type ScoreRecord struct {
	// Name is the player name as submitted.
	Name string `json:"name"`
	// Score is the submitted score.
	Score int64 `json:"score"`
	// Timestamp is the submission time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// RankedScore is a single row of the leaderboard listing.
type RankedScore struct {
	// Name is the player name.
	Name string `json:"name"`
	// Score is the player's current score.
	Score int64 `json:"score"`
	// Hash is the receipt hash matching Name and Score, or nil if none exists.
	Hash *string `json:"hash"`
}

// ScoreMember is a raw sorted-set member read back from the store.
type ScoreMember struct {
	Name  string
	Score int64
}

// CheckResult is the outcome of a profanity check.
type CheckResult string

const (
	// CheckPass means the text contains no forbidden substring.
	CheckPass CheckResult = "pass"
	// CheckFail means the text contains at least one forbidden substring.
	CheckFail CheckResult = "fail"
)
