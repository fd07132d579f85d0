package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/presets"
	"github.com/abrezinsky/tinydecisions/internal/repository"
	"github.com/abrezinsky/tinydecisions/internal/repository/mock"
	"github.com/abrezinsky/tinydecisions/internal/services"
	"github.com/abrezinsky/tinydecisions/internal/testutil"
)

func newCoinService(t *testing.T, store repository.Store, sched services.Scheduler, values ...float64) (*services.CoinService, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	svc := services.NewCoinService(logger.New(), store, presets.Default(),
		testutil.Runtime(&testutil.SequenceSource{Values: values}, sched), time.Second)
	svc.SetBroadcaster(rec)
	return svc, rec
}

func TestCoinService_DefaultState(t *testing.T) {
	svc, _ := newCoinService(t, testutil.NewTestRepository(t), nil)

	state, err := svc.State(context.Background())
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.Style.ID != "panda" {
		t.Errorf("expected default style panda, got %q", state.Style.ID)
	}
	if state.Stats.HeadsCount != 0 || state.Stats.TailsCount != 0 {
		t.Errorf("expected zero stats, got %+v", state.Stats)
	}
	if state.History == nil || len(state.History) != 0 {
		t.Errorf("expected empty history, got %v", state.History)
	}
	if state.Flipping {
		t.Error("coin should not be flipping")
	}
}

func TestCoinService_Flip(t *testing.T) {
	sched := &testutil.ManualScheduler{}
	// 0.25 lands heads, 0.75 lands tails
	svc, rec := newCoinService(t, testutil.NewTestRepository(t), sched, 0.25, 0.75)
	ctx := context.Background()

	res, err := svc.Flip(ctx)
	if err != nil {
		t.Fatalf("Flip failed: %v", err)
	}
	if !res.Started || res.State != services.StatePending || res.RevealAfterMS != 1000 {
		t.Errorf("unexpected flip result: %+v", res)
	}
	if res.Result != models.CoinHeads || res.Emoji != "🐼" {
		t.Errorf("expected panda heads, got %q %q", res.Result, res.Emoji)
	}

	// Busy until revealed
	again, err := svc.Flip(ctx)
	if err != nil || again.Started || again.State != services.StateBusy {
		t.Errorf("expected busy no-op, got %+v (%v)", again, err)
	}
	state, _ := svc.State(ctx)
	if !state.Flipping || state.Stats.HeadsCount != 0 || len(state.History) != 0 {
		t.Errorf("nothing should be recorded before the reveal: %+v", state)
	}

	sched.Run()

	state, _ = svc.State(ctx)
	if state.Flipping {
		t.Error("flip should be resolved")
	}
	if state.Stats.HeadsCount != 1 || state.Stats.TailsCount != 0 {
		t.Errorf("unexpected stats: %+v", state.Stats)
	}
	if len(state.History) != 1 || state.History[0].Result != models.CoinHeads {
		t.Errorf("unexpected history: %+v", state.History)
	}
	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0].Type != services.MsgCoinResult {
		t.Fatalf("expected one coin_result broadcast, got %+v", msgs)
	}
	if flip := msgs[0].Payload.(*services.FlipResult); flip.State != services.StateResolved || flip.Result != models.CoinHeads {
		t.Errorf("expected resolved heads broadcast, got %+v", flip)
	}

	res, _ = svc.Flip(ctx)
	sched.Run()
	if res.Result != models.CoinTails || res.Emoji != "🎋" {
		t.Errorf("expected panda tails, got %q %q", res.Result, res.Emoji)
	}
	state, _ = svc.State(ctx)
	if state.Stats.TailsCount != 1 || state.History[0].Result != models.CoinTails {
		t.Errorf("expected newest flip first, got %+v", state.History)
	}
}

func TestCoinService_HistoryCapped(t *testing.T) {
	svc, _ := newCoinService(t, testutil.NewTestRepository(t), nil, 0.1)
	ctx := context.Background()

	for i := 0; i < services.ToolHistoryLimit+10; i++ {
		if _, err := svc.Flip(ctx); err != nil {
			t.Fatalf("Flip %d failed: %v", i, err)
		}
	}

	state, _ := svc.State(ctx)
	if len(state.History) != services.ToolHistoryLimit {
		t.Errorf("expected history capped at %d, got %d", services.ToolHistoryLimit, len(state.History))
	}
	if state.Stats.HeadsCount != services.ToolHistoryLimit+10 {
		t.Errorf("stats should count every flip, got %d", state.Stats.HeadsCount)
	}
}

func TestCoinService_Style(t *testing.T) {
	svc, _ := newCoinService(t, testutil.NewTestRepository(t), nil, 0.9)
	ctx := context.Background()

	if len(svc.Styles()) != 4 {
		t.Errorf("expected 4 styles, got %d", len(svc.Styles()))
	}

	style, err := svc.SetStyle(ctx, "classic")
	if err != nil {
		t.Fatalf("SetStyle failed: %v", err)
	}
	if style.TailsEmoji != "🔰" {
		t.Errorf("unexpected style: %+v", style)
	}

	res, _ := svc.Flip(ctx)
	if res.Emoji != "🔰" {
		t.Errorf("expected flip to use the selected style, got %q", res.Emoji)
	}

	if _, err := svc.SetStyle(ctx, "holographic"); err != services.ErrUnknownCoinStyle {
		t.Errorf("expected ErrUnknownCoinStyle, got %v", err)
	}
	state, _ := svc.State(ctx)
	if state.Style.ID != "classic" {
		t.Errorf("failed SetStyle must not change the style, got %q", state.Style.ID)
	}
}

func TestCoinService_ResetAndClear(t *testing.T) {
	svc, _ := newCoinService(t, testutil.NewTestRepository(t), nil, 0.1, 0.9)
	ctx := context.Background()

	svc.Flip(ctx)
	svc.Flip(ctx)

	if err := svc.ResetStats(ctx); err != nil {
		t.Fatalf("ResetStats failed: %v", err)
	}
	state, _ := svc.State(ctx)
	if state.Stats != (models.CoinFlipStats{}) {
		t.Errorf("expected zero stats, got %+v", state.Stats)
	}
	if len(state.History) != 2 {
		t.Errorf("ResetStats should keep history, got %d entries", len(state.History))
	}

	if err := svc.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	state, _ = svc.State(ctx)
	if len(state.History) != 0 {
		t.Errorf("expected empty history, got %d", len(state.History))
	}
}

func TestCoinService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("style load fails", func(t *testing.T) {
		m := mock.NewRepository(testutil.NewTestRepository(t))
		svc, _ := newCoinService(t, m, nil, 0.1)
		m.GetError = stderrors.New("read failed")

		if _, err := svc.Flip(ctx); err == nil {
			t.Fatal("expected Flip to fail")
		}
		if svc.IsFlipping() {
			t.Error("failed flip must release the busy flag")
		}
		if _, err := svc.State(ctx); err == nil {
			t.Error("expected State to fail")
		}
	})

	t.Run("history save fails", func(t *testing.T) {
		m := mock.NewRepository(testutil.NewTestRepository(t))
		svc, rec := newCoinService(t, m, nil, 0.1)
		m.SetErrors[repository.KeyCoinFlipHistory] = stderrors.New("disk full")

		if _, err := svc.Flip(ctx); err != nil {
			t.Fatalf("Flip should report the toss, got %v", err)
		}
		if len(rec.Messages()) != 0 {
			t.Error("unrecorded flip must not be broadcast")
		}
		if svc.IsFlipping() {
			t.Error("busy flag should be cleared")
		}
		if err := svc.ClearHistory(ctx); err == nil {
			t.Error("expected ClearHistory to fail")
		}
	})

	t.Run("stats save fails", func(t *testing.T) {
		m := mock.NewRepository(testutil.NewTestRepository(t))
		svc, _ := newCoinService(t, m, nil)
		m.SetError = stderrors.New("disk full")

		if err := svc.ResetStats(ctx); err == nil {
			t.Error("expected ResetStats to fail")
		}
		if _, err := svc.SetStyle(ctx, "moon"); err == nil {
			t.Error("expected SetStyle to fail")
		}
	})
}
