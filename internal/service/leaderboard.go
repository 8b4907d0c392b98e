// Package service provides the leaderboard business logic: score
// submission with receipt hashes, listing, receipt verification and the
// password-gated reset. Persistence and credential lookup are delegated to
// injected interfaces.
package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/leaderboard/internal/models"
)

const (
	// LeaderboardKey is the sorted set holding name → score.
	LeaderboardKey = "game:leaderboard"
	// ReceiptKey is the hash holding receipt hash → JSON ScoreRecord.
	ReceiptKey = "game:score_hashes"
	// DefaultLimit is the number of rows returned by ListTopScores when no
	// positive limit is given.
	DefaultLimit = 15
	// SentinelName is the placeholder player re-seeded after a reset.
	SentinelName = "DefaultPlayer"
	// MaxScore bounds the absolute value of a submitted score. Sorted set
	// scores are float64 and represent integers exactly only up to 2^53.
	MaxScore = 1 << 53
)

var (
	// ErrHashNotFound is returned by VerifyHash for an unknown receipt hash.
	ErrHashNotFound = errors.New("hash not found")
	// ErrUnauthorized is returned by ResetLeaderboard on a password mismatch.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidScore is returned by SubmitScore when |score| exceeds MaxScore.
	ErrInvalidScore = errors.New("score out of range")
)

// LeaderboardStore defines the key-value primitives required by the
// leaderboard service. Each call is atomic on its own; nothing spans calls.
type LeaderboardStore interface {
	// UpsertScore sets member's score in the sorted set at key.
	UpsertScore(ctx context.Context, key, member string, score int64) error
	// TopScores returns up to limit members, highest score first.
	TopScores(ctx context.Context, key string, limit int) ([]models.ScoreMember, error)
	// SetField stores value under field in the hash at key.
	SetField(ctx context.Context, key, field, value string) error
	// GetField reads one hash field; ok is false when it does not exist.
	GetField(ctx context.Context, key, field string) (value string, ok bool, err error)
	// GetAllFields returns the whole hash at key.
	GetAllFields(ctx context.Context, key string) (map[string]string, error)
	// Delete removes key entirely.
	Delete(ctx context.Context, key string) error
}

// SecretProvider fetches the admin credential. Implementations must not cache.
type SecretProvider interface {
	FetchAdminPassword(ctx context.Context) (string, error)
}

// LeaderboardService implements the leaderboard protocol.
type LeaderboardService struct {
	store   LeaderboardStore
	secrets SecretProvider
	now     func() time.Time
}

// NewLeaderboardService constructs a LeaderboardService.
func NewLeaderboardService(store LeaderboardStore, secrets SecretProvider) *LeaderboardService {
	return &LeaderboardService{store: store, secrets: secrets, now: time.Now}
}

// WithClock replaces the time source; intended for tests.
func (s *LeaderboardService) WithClock(now func() time.Time) *LeaderboardService {
	s.now = now
	return s
}

// ReceiptHash returns the hex SHA-256 of "name:score:timestamp".
func ReceiptHash(name string, score, timestamp int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", name, score, timestamp)))
	return hex.EncodeToString(sum[:])
}

// SubmitScore records score for name and returns the receipt hash.
// Scores outside [-MaxScore, MaxScore] are rejected with ErrInvalidScore
// before anything is written. The leaderboard is updated before the receipt
// is written; if the second write fails the first is not undone.
func (s *LeaderboardService) SubmitScore(ctx context.Context, name string, score int64) (string, error) {
	if score > MaxScore || score < -MaxScore {
		return "", ErrInvalidScore
	}

	rec := models.ScoreRecord{
		Name:      name,
		Score:     score,
		Timestamp: s.now().UnixMilli(),
	}
	hash := ReceiptHash(rec.Name, rec.Score, rec.Timestamp)

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}
	if err := s.store.UpsertScore(ctx, LeaderboardKey, name, score); err != nil {
		return "", fmt.Errorf("add score: %w", err)
	}
	if err := s.store.SetField(ctx, ReceiptKey, hash, string(payload)); err != nil {
		return "", fmt.Errorf("store receipt: %w", err)
	}
	return hash, nil
}

// ListTopScores returns up to limit leaderboard rows, highest first, each
// annotated with a matching receipt hash. A non-positive limit means
// DefaultLimit.
//
// Receipts are not indexed by name and score: for every row the whole
// receipt index is read and scanned, and the first matching record in map
// iteration order wins.
func (s *LeaderboardService) ListTopScores(ctx context.Context, limit int) ([]models.RankedScore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	members, err := s.store.TopScores(ctx, LeaderboardKey, limit)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	result := make([]models.RankedScore, 0, len(members))
	for _, m := range members {
		receipts, err := s.store.GetAllFields(ctx, ReceiptKey)
		if err != nil {
			return nil, fmt.Errorf("read receipts: %w", err)
		}
		result = append(result, models.RankedScore{
			Name:  m.Name,
			Score: m.Score,
			Hash:  findReceipt(receipts, m.Name, m.Score),
		})
	}
	return result, nil
}

// findReceipt scans receipts for a record with the given name and score.
// Records that fail to decode are skipped.
func findReceipt(receipts map[string]string, name string, score int64) *string {
	for hash, raw := range receipts {
		var rec models.ScoreRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		if rec.Name == name && rec.Score == score {
			return &hash
		}
	}
	return nil
}

// VerifyHash returns the record stored for hash, or ErrHashNotFound.
func (s *LeaderboardService) VerifyHash(ctx context.Context, hash string) (models.ScoreRecord, error) {
	raw, ok, err := s.store.GetField(ctx, ReceiptKey, hash)
	if err != nil {
		return models.ScoreRecord{}, fmt.Errorf("read receipt: %w", err)
	}
	if !ok {
		return models.ScoreRecord{}, ErrHashNotFound
	}

	var rec models.ScoreRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.ScoreRecord{}, fmt.Errorf("decode receipt: %w", err)
	}
	return rec, nil
}

// ResetLeaderboard wipes the leaderboard and every receipt, then re-seeds
// the sentinel entry with score zero. The admin password is fetched fresh
// on every call. On mismatch nothing is modified and ErrUnauthorized is
// returned.
func (s *LeaderboardService) ResetLeaderboard(ctx context.Context, password string) error {
	adminPassword, err := s.secrets.FetchAdminPassword(ctx)
	if err != nil {
		return fmt.Errorf("fetch admin password: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) != 1 {
		return ErrUnauthorized
	}

	if err := s.store.Delete(ctx, LeaderboardKey); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	if err := s.store.Delete(ctx, ReceiptKey); err != nil {
		return fmt.Errorf("clear receipts: %w", err)
	}
	if err := s.store.UpsertScore(ctx, LeaderboardKey, SentinelName, 0); err != nil {
		return fmt.Errorf("seed leaderboard: %w", err)
	}
	return nil
}
