package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/repository"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

type fakeLoader struct {
	calls []ScheduleOptions
	years []int
	err   error
}

func (f *fakeLoader) GetEventSchedule(_ context.Context, year int, opts ScheduleOptions) (*schedule.Table, error) {
	f.calls = append(f.calls, opts)
	f.years = append(f.years, year)
	if f.err != nil {
		return nil, f.err
	}
	return schedule.NewTable(year, nil)
}

func TestNewWarmupService_InvalidSpec(t *testing.T) {
	if _, err := NewWarmupService(&fakeLoader{}, nil, "every day", logrus.New()); err == nil {
		t.Fatal("expected parse error")
	}
	for _, spec := range []string{"0 4 * * *", "*/30 * * * * *", "@daily"} {
		if _, err := NewWarmupService(&fakeLoader{}, nil, spec, logrus.New()); err != nil {
			t.Errorf("spec %q: %v", spec, err)
		}
	}
}

func TestWarmupService_RunOnce(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 4, 0, 0, 0, time.UTC)

	store := repository.NewMemoryStore()
	_ = store.Save(ctx, &model.CachedResponse{URL: "http://old", ExpiresAt: now.Add(-time.Hour)})
	_ = store.Save(ctx, &model.CachedResponse{URL: "http://fresh", ExpiresAt: now.Add(time.Hour)})

	loader := &fakeLoader{}
	w, err := NewWarmupService(loader, store, "@daily", logger)
	if err != nil {
		t.Fatalf("NewWarmupService: %v", err)
	}
	w.now = func() time.Time { return now }

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(loader.calls) != 2 || loader.calls[0].ForceSecondary || !loader.calls[1].ForceSecondary {
		t.Errorf("calls = %+v", loader.calls)
	}
	if loader.years[0] != 2024 {
		t.Errorf("warmed year %d", loader.years[0])
	}
	if e, _ := store.Get(ctx, "http://old"); e != nil {
		t.Error("expired entry not purged")
	}
	if e, _ := store.Get(ctx, "http://fresh"); e == nil {
		t.Error("fresh entry purged")
	}
}

func TestWarmupService_RunOnceReportsErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	boom := errors.New("upstream down")
	w, err := NewWarmupService(&fakeLoader{err: boom}, nil, "@hourly", logger)
	if err != nil {
		t.Fatalf("NewWarmupService: %v", err)
	}
	if err := w.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestWarmupService_StartStop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	w, err := NewWarmupService(&fakeLoader{}, nil, "@every 1h", logger)
	if err != nil {
		t.Fatalf("NewWarmupService: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
}
