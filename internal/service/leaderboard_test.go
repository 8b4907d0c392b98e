package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/leaderboard/internal/models"
	"github.com/atinyakov/leaderboard/internal/service"
)

type mockStore struct {
	UpsertScoreFunc  func(ctx context.Context, key, member string, score int64) error
	TopScoresFunc    func(ctx context.Context, key string, limit int) ([]models.ScoreMember, error)
	SetFieldFunc     func(ctx context.Context, key, field, value string) error
	GetFieldFunc     func(ctx context.Context, key, field string) (string, bool, error)
	GetAllFieldsFunc func(ctx context.Context, key string) (map[string]string, error)
	DeleteFunc       func(ctx context.Context, key string) error
}

func (m *mockStore) UpsertScore(ctx context.Context, key, member string, score int64) error {
	return m.UpsertScoreFunc(ctx, key, member, score)
}
func (m *mockStore) TopScores(ctx context.Context, key string, limit int) ([]models.ScoreMember, error) {
	return m.TopScoresFunc(ctx, key, limit)
}
func (m *mockStore) SetField(ctx context.Context, key, field, value string) error {
	return m.SetFieldFunc(ctx, key, field, value)
}
func (m *mockStore) GetField(ctx context.Context, key, field string) (string, bool, error) {
	return m.GetFieldFunc(ctx, key, field)
}
func (m *mockStore) GetAllFields(ctx context.Context, key string) (map[string]string, error) {
	return m.GetAllFieldsFunc(ctx, key)
}
func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.DeleteFunc(ctx, key)
}

type staticSecret struct {
	password string
	err      error
	calls    int
}

func (s *staticSecret) FetchAdminPassword(context.Context) (string, error) {
	s.calls++
	return s.password, s.err
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestReceiptHash(t *testing.T) {
	sum := sha256.Sum256([]byte("Alice:100:1700000000000"))
	want := hex.EncodeToString(sum[:])

	if got := service.ReceiptHash("Alice", 100, 1700000000000); got != want {
		t.Errorf("ReceiptHash = %q; want %q", got, want)
	}
	if service.ReceiptHash("Alice", 100, 1700000000001) == want {
		t.Error("hash ignores timestamp")
	}
	if service.ReceiptHash("Alice", -5, 1) != service.ReceiptHash("Alice", -5, 1) {
		t.Error("hash is not deterministic")
	}
}

func TestSubmitScore_WritesLeaderboardThenReceipt(t *testing.T) {
	var order []string
	store := &mockStore{
		UpsertScoreFunc: func(_ context.Context, key, member string, score int64) error {
			order = append(order, "upsert")
			if key != service.LeaderboardKey || member != "Alice" || score != 100 {
				t.Errorf("UpsertScore(%q, %q, %d)", key, member, score)
			}
			return nil
		},
		SetFieldFunc: func(_ context.Context, key, field, value string) error {
			order = append(order, "receipt")
			if key != service.ReceiptKey {
				t.Errorf("SetField key = %q; want %q", key, service.ReceiptKey)
			}
			if field != service.ReceiptHash("Alice", 100, 42) {
				t.Errorf("SetField field = %q; unexpected hash", field)
			}
			if want := `{"name":"Alice","score":100,"timestamp":42}`; value != want {
				t.Errorf("SetField value = %s; want %s", value, want)
			}
			return nil
		},
	}
	svc := service.NewLeaderboardService(store, &staticSecret{}).WithClock(fixedClock(42))

	hash, err := svc.SubmitScore(context.Background(), "Alice", 100)
	if err != nil {
		t.Fatalf("SubmitScore error: %v", err)
	}
	if hash != service.ReceiptHash("Alice", 100, 42) {
		t.Errorf("hash = %q; unexpected", hash)
	}
	if len(order) != 2 || order[0] != "upsert" || order[1] != "receipt" {
		t.Errorf("write order = %v; want [upsert receipt]", order)
	}
}

func TestSubmitScore_UpsertError(t *testing.T) {
	wantErr := errors.New("store down")
	receiptWritten := false
	store := &mockStore{
		UpsertScoreFunc: func(context.Context, string, string, int64) error { return wantErr },
		SetFieldFunc: func(context.Context, string, string, string) error {
			receiptWritten = true
			return nil
		},
	}
	svc := service.NewLeaderboardService(store, &staticSecret{})

	_, err := svc.SubmitScore(context.Background(), "Alice", 1)
	if !errors.Is(err, wantErr) {
		t.Fatalf("SubmitScore error = %v; want %v", err, wantErr)
	}
	if receiptWritten {
		t.Error("receipt must not be written when the leaderboard upsert fails")
	}
}

func TestSubmitScore_ReceiptErrorLeavesLeaderboard(t *testing.T) {
	wantErr := errors.New("hset failed")
	upserted := false
	store := &mockStore{
		UpsertScoreFunc: func(context.Context, string, string, int64) error {
			upserted = true
			return nil
		},
		SetFieldFunc: func(context.Context, string, string, string) error { return wantErr },
	}
	svc := service.NewLeaderboardService(store, &staticSecret{})

	_, err := svc.SubmitScore(context.Background(), "Alice", 1)
	if !errors.Is(err, wantErr) {
		t.Fatalf("SubmitScore error = %v; want %v", err, wantErr)
	}
	if !upserted {
		t.Error("expected leaderboard upsert before receipt failure")
	}
}

func TestListTopScores_DefaultLimitAndScanPerRow(t *testing.T) {
	scans := 0
	store := &mockStore{
		TopScoresFunc: func(_ context.Context, key string, limit int) ([]models.ScoreMember, error) {
			if limit != service.DefaultLimit {
				t.Errorf("limit = %d; want %d", limit, service.DefaultLimit)
			}
			return []models.ScoreMember{{Name: "a", Score: 3}, {Name: "b", Score: 2}, {Name: "c", Score: 1}}, nil
		},
		GetAllFieldsFunc: func(context.Context, string) (map[string]string, error) {
			scans++
			return map[string]string{
				"ha":  `{"name":"a","score":3,"timestamp":1}`,
				"bad": `not json`,
				"hb":  `{"name":"b","score":99,"timestamp":1}`,
			}, nil
		},
	}
	svc := service.NewLeaderboardService(store, &staticSecret{})

	got, err := svc.ListTopScores(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListTopScores error: %v", err)
	}
	if scans != 3 {
		t.Errorf("receipt index read %d times; want once per row (3)", scans)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows; want 3", len(got))
	}
	if got[0].Hash == nil || *got[0].Hash != "ha" {
		t.Errorf("row a hash = %v; want ha", got[0].Hash)
	}
	if got[1].Hash != nil {
		t.Errorf("row b hash = %v; want nil (score mismatch)", *got[1].Hash)
	}
	if got[2].Hash != nil {
		t.Errorf("row c hash = %v; want nil", *got[2].Hash)
	}
}

func TestListTopScores_Errors(t *testing.T) {
	wantErr := errors.New("boom")
	t.Run("leaderboard read", func(t *testing.T) {
		store := &mockStore{
			TopScoresFunc: func(context.Context, string, int) ([]models.ScoreMember, error) { return nil, wantErr },
		}
		_, err := service.NewLeaderboardService(store, &staticSecret{}).ListTopScores(context.Background(), 5)
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v; want %v", err, wantErr)
		}
	})
	t.Run("receipt read", func(t *testing.T) {
		store := &mockStore{
			TopScoresFunc: func(context.Context, string, int) ([]models.ScoreMember, error) {
				return []models.ScoreMember{{Name: "a", Score: 1}}, nil
			},
			GetAllFieldsFunc: func(context.Context, string) (map[string]string, error) { return nil, wantErr },
		}
		_, err := service.NewLeaderboardService(store, &staticSecret{}).ListTopScores(context.Background(), 5)
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v; want %v", err, wantErr)
		}
	})
}

func TestVerifyHash(t *testing.T) {
	store := &mockStore{
		GetFieldFunc: func(_ context.Context, key, field string) (string, bool, error) {
			switch field {
			case "good":
				return `{"name":"Alice","score":100,"timestamp":7}`, true, nil
			case "corrupt":
				return `{`, true, nil
			case "broken":
				return "", false, errors.New("store down")
			}
			return "", false, nil
		},
	}
	svc := service.NewLeaderboardService(store, &staticSecret{})
	ctx := context.Background()

	rec, err := svc.VerifyHash(ctx, "good")
	if err != nil {
		t.Fatalf("VerifyHash(good) error: %v", err)
	}
	if want := (models.ScoreRecord{Name: "Alice", Score: 100, Timestamp: 7}); rec != want {
		t.Errorf("VerifyHash(good) = %+v; want %+v", rec, want)
	}

	if _, err := svc.VerifyHash(ctx, "missing"); !errors.Is(err, service.ErrHashNotFound) {
		t.Errorf("VerifyHash(missing) error = %v; want ErrHashNotFound", err)
	}
	if _, err := svc.VerifyHash(ctx, "corrupt"); err == nil || errors.Is(err, service.ErrHashNotFound) {
		t.Errorf("VerifyHash(corrupt) error = %v; want decode error", err)
	}
	if _, err := svc.VerifyHash(ctx, "broken"); err == nil || errors.Is(err, service.ErrHashNotFound) {
		t.Errorf("VerifyHash(broken) error = %v; want dependency error", err)
	}
}

func TestResetLeaderboard_WrongPasswordNoMutation(t *testing.T) {
	store := &mockStore{
		DeleteFunc: func(context.Context, string) error {
			t.Error("Delete must not be called on password mismatch")
			return nil
		},
		UpsertScoreFunc: func(context.Context, string, string, int64) error {
			t.Error("UpsertScore must not be called on password mismatch")
			return nil
		},
	}
	svc := service.NewLeaderboardService(store, &staticSecret{password: "right"})

	err := svc.ResetLeaderboard(context.Background(), "wrong")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("ResetLeaderboard error = %v; want ErrUnauthorized", err)
	}
}

func TestResetLeaderboard_ProviderError(t *testing.T) {
	wantErr := errors.New("secrets unreachable")
	svc := service.NewLeaderboardService(&mockStore{}, &staticSecret{err: wantErr})

	err := svc.ResetLeaderboard(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Fatalf("ResetLeaderboard error = %v; want %v", err, wantErr)
	}
	if errors.Is(err, service.ErrUnauthorized) {
		t.Error("provider failure must not be reported as unauthorized")
	}
}

func TestResetLeaderboard_Sequence(t *testing.T) {
	var calls []string
	store := &mockStore{
		DeleteFunc: func(_ context.Context, key string) error {
			calls = append(calls, "del "+key)
			return nil
		},
		UpsertScoreFunc: func(_ context.Context, key, member string, score int64) error {
			calls = append(calls, "zadd "+key+" "+member)
			if score != 0 {
				t.Errorf("sentinel score = %d; want 0", score)
			}
			return nil
		},
	}
	secret := &staticSecret{password: "pw"}
	svc := service.NewLeaderboardService(store, secret)

	if err := svc.ResetLeaderboard(context.Background(), "pw"); err != nil {
		t.Fatalf("ResetLeaderboard error: %v", err)
	}
	want := []string{
		"del " + service.LeaderboardKey,
		"del " + service.ReceiptKey,
		"zadd " + service.LeaderboardKey + " " + service.SentinelName,
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v; want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q; want %q", i, calls[i], want[i])
		}
	}

	_ = svc.ResetLeaderboard(context.Background(), "pw")
	if secret.calls != 2 {
		t.Errorf("secret fetched %d times; want 2 (no caching)", secret.calls)
	}
}

func TestResetLeaderboard_StoreError(t *testing.T) {
	wantErr := errors.New("del failed")
	store := &mockStore{
		DeleteFunc: func(context.Context, string) error { return wantErr },
	}
	svc := service.NewLeaderboardService(store, &staticSecret{password: "pw"})

	if err := svc.ResetLeaderboard(context.Background(), "pw"); !errors.Is(err, wantErr) {
		t.Fatalf("ResetLeaderboard error = %v; want %v", err, wantErr)
	}
}
