//go:build !integration

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/repository"
	"telegram-affiliate-bot/internal/infra/worker"
)

func newTestReferralUC(users *memUserRepo, events *memEventRepo) *referralUC {
	return NewReferralUseCase(users, events, &mockTxManager{}, nil, nil, 100, newTestLogger())
}

func TestReferralUC_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should be idempotent per telegram ID", func(t *testing.T) {
		users := newMemUserRepo()
		uc := newTestReferralUC(users, newMemEventRepo())

		first, err := uc.RegisterUser(ctx, 100, "alice", "Alice", "")
		if err != nil {
			t.Fatalf("first registration failed: %v", err)
		}
		second, err := uc.RegisterUser(ctx, 100, "alice", "Alice", "")
		if err != nil {
			t.Fatalf("replay failed: %v", err)
		}
		if first.ReferralCode != second.ReferralCode {
			t.Errorf("referral code changed on replay: %s vs %s", first.ReferralCode, second.ReferralCode)
		}
		if second.ReferralCount != 0 || second.Points != 0 {
			t.Errorf("replay changed counters: %d referrals, %d points", second.ReferralCount, second.Points)
		}
		if n, _ := users.CountUsers(ctx, nil); n != 1 {
			t.Errorf("expected 1 stored user, got %d", n)
		}
	})

	t.Run("should credit the inviter exactly once", func(t *testing.T) {
		users := newMemUserRepo()
		events := newMemEventRepo()
		uc := newTestReferralUC(users, events)

		a, err := uc.RegisterUser(ctx, 1, "a", "A", "")
		if err != nil {
			t.Fatalf("register A: %v", err)
		}
		if _, err := uc.RegisterUser(ctx, 2, "b", "B", a.ReferralCode); err != nil {
			t.Fatalf("register B with A's code: %v", err)
		}

		gotA, _ := uc.GetUser(ctx, 1)
		if gotA.ReferralCount != 1 {
			t.Errorf("expected A to have 1 referral, got %d", gotA.ReferralCount)
		}
		if gotA.Points != 100 {
			t.Errorf("expected A to have 100 points, got %d", gotA.Points)
		}
		gotB, _ := uc.GetUser(ctx, 2)
		if gotB.ReferredBy == nil || *gotB.ReferredBy != 1 {
			t.Errorf("expected B to be referred by 1, got %v", gotB.ReferredBy)
		}

		evs, _ := events.ListByReferrer(ctx, nil, a.ReferralCode)
		if len(evs) != 1 {
			t.Fatalf("expected exactly 1 referral event, got %d", len(evs))
		}
		if evs[0].ReferredTgID != 2 || evs[0].Points != 100 {
			t.Errorf("unexpected event: %+v", evs[0])
		}

		// Replaying B's registration must not double-credit.
		if _, err := uc.RegisterUser(ctx, 2, "b", "B", a.ReferralCode); err != nil {
			t.Fatalf("replay of B failed: %v", err)
		}
		gotA, _ = uc.GetUser(ctx, 1)
		if gotA.ReferralCount != 1 || gotA.Points != 100 {
			t.Errorf("replay double-credited A: %d referrals, %d points", gotA.ReferralCount, gotA.Points)
		}
		if n, _ := events.CountEvents(ctx, nil); n != 1 {
			t.Errorf("expected 1 event after replay, got %d", n)
		}
	})

	t.Run("should register without a referrer when the code is unknown", func(t *testing.T) {
		users := newMemUserRepo()
		uc := newTestReferralUC(users, newMemEventRepo())

		u, err := uc.RegisterUser(ctx, 5, "c", "C", "LUXNOBODY")
		if err != nil {
			t.Fatalf("expected no error for unknown code, got %v", err)
		}
		if u.ReferredBy != nil {
			t.Errorf("expected no referrer, got %v", *u.ReferredBy)
		}
	})

	t.Run("should reject self-referral but keep the user", func(t *testing.T) {
		users := newMemUserRepo()
		events := newMemEventRepo()
		uc := newTestReferralUC(users, events)

		b, err := uc.RegisterUser(ctx, 9, "b", "B", "")
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		got, err := uc.RegisterUser(ctx, 9, "b", "B", b.ReferralCode)
		if !errors.Is(err, domain.ErrSelfReferral) {
			t.Fatalf("expected ErrSelfReferral, got %v", err)
		}
		if got == nil {
			t.Fatal("expected the existing user to be returned alongside the self-referral error")
		}
		if got.ReferredBy != nil {
			t.Error("self-referral must never set a referred-by link")
		}
		if got.ReferralCount != 0 || got.Points != 0 {
			t.Errorf("self-referral credited points: %d referrals, %d points", got.ReferralCount, got.Points)
		}
		if n, _ := events.CountEvents(ctx, nil); n != 0 {
			t.Errorf("expected no events, got %d", n)
		}
	})

	t.Run("should propagate storage failures", func(t *testing.T) {
		users := newMemUserRepo()
		expectedErr := errors.New("database is down")
		users.FindByTelegramFunc = func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
			return nil, expectedErr
		}
		uc := newTestReferralUC(users, newMemEventRepo())

		_, err := uc.RegisterUser(ctx, 7, "x", "", "")
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error to wrap %v, got %v", expectedErr, err)
		}
	})

	t.Run("should generate pairwise unique codes across many registrations", func(t *testing.T) {
		users := newMemUserRepo()
		uc := newTestReferralUC(users, newMemEventRepo())

		seen := make(map[string]int64, 10000)
		for i := int64(1); i <= 10000; i++ {
			u, err := uc.RegisterUser(ctx, i, "", "", "")
			if err != nil {
				t.Fatalf("registration %d failed: %v", i, err)
			}
			if prev, dup := seen[u.ReferralCode]; dup {
				t.Fatalf("code %s issued to both %d and %d", u.ReferralCode, prev, i)
			}
			seen[u.ReferralCode] = i
		}
	})
}

func TestReferralUC_Notification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("should notify the inviter after a successful credit", func(t *testing.T) {
		users := newMemUserRepo()
		bot := &mockBot{}
		pool := worker.NewPool(2, newTestLogger())
		pool.Start(ctx)
		defer pool.Stop()

		uc := NewReferralUseCase(users, newMemEventRepo(), &mockTxManager{}, bot, pool, 100, newTestLogger())
		a, _ := uc.RegisterUser(ctx, 1, "a", "A", "")
		if _, err := uc.RegisterUser(ctx, 2, "b", "Bea", a.ReferralCode); err != nil {
			t.Fatalf("register: %v", err)
		}

		deadline := time.Now().Add(2 * time.Second)
		for {
			sent := bot.sent()
			if len(sent) == 1 {
				if sent[0].TgID != 1 {
					t.Errorf("notification went to %d, want 1", sent[0].TgID)
				}
				if !strings.Contains(sent[0].Text, "Bea") {
					t.Errorf("notification missing joiner name: %q", sent[0].Text)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("inviter notification never arrived")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("should swallow notification failures", func(t *testing.T) {
		users := newMemUserRepo()
		bot := &mockBot{SendErr: errors.New("user blocked the bot")}
		pool := worker.NewPool(1, newTestLogger())
		pool.Start(ctx)
		defer pool.Stop()

		uc := NewReferralUseCase(users, newMemEventRepo(), &mockTxManager{}, bot, pool, 100, newTestLogger())
		a, _ := uc.RegisterUser(ctx, 1, "a", "A", "")
		if _, err := uc.RegisterUser(ctx, 2, "b", "B", a.ReferralCode); err != nil {
			t.Fatalf("registration must not fail on notification error: %v", err)
		}
		gotA, _ := uc.GetUser(ctx, 1)
		if gotA.ReferralCount != 1 {
			t.Errorf("credit lost: %d", gotA.ReferralCount)
		}
	})
}

func TestReferralUC_Leaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("should order deterministically under ties", func(t *testing.T) {
		users := newMemUserRepo()
		uc := newTestReferralUC(users, newMemEventRepo())

		base := time.Now().Add(-time.Hour)
		seed := []struct {
			tgID   int64
			count  int
			points int64
		}{
			{1, 3, 50},
			{2, 3, 80},
			{3, 1, 10},
		}
		for i, s := range seed {
			u, err := uc.RegisterUser(ctx, s.tgID, "", "", "")
			if err != nil {
				t.Fatalf("register %d: %v", s.tgID, err)
			}
			u.ReferralCount = s.count
			u.Points = s.points
			u.RegisteredAt = base.Add(time.Duration(i) * time.Minute)
			if err := users.Save(ctx, nil, u); err != nil {
				t.Fatalf("save: %v", err)
			}
		}

		top, err := uc.Leaderboard(ctx, 10)
		if err != nil {
			t.Fatalf("Leaderboard failed: %v", err)
		}
		want := []int64{2, 1, 3}
		if len(top) != len(want) {
			t.Fatalf("expected %d users, got %d", len(want), len(top))
		}
		for i, tg := range want {
			if top[i].TelegramID != tg {
				t.Errorf("position %d: expected tg %d, got %d", i, tg, top[i].TelegramID)
			}
		}
	})
}
