package adapter_test

import (
	"io"
	"testing"

	"SeasonSchedule/internal/adapter"
	_ "SeasonSchedule/internal/adapter/ergast"
	_ "SeasonSchedule/internal/adapter/primary"
	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"

	"github.com/sirupsen/logrus"
)

type nopFetcher struct{ interfaces.Fetcher }

func TestListFactories(t *testing.T) {
	got := adapter.ListFactories()
	if len(got) != 2 || got[0] != model.SourceErgast || got[1] != model.SourcePrimary {
		t.Errorf("ListFactories() = %v", got)
	}
}

func TestNewSourceRegistry(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var built []string
	build := func(name string, cfg *config.SourceConfig) interfaces.Fetcher {
		built = append(built, name)
		return nopFetcher{}
	}
	reg := adapter.NewSourceRegistry(map[string]config.SourceConfig{
		"primary": {BaseURL: "http://primary"},
		"ergast":  {BaseURL: "http://ergast"},
		"unknown": {BaseURL: "http://nowhere"},
	}, build, logger)

	if reg.Count() != 2 || len(built) != 2 {
		t.Fatalf("Count = %d, fetchers built = %v", reg.Count(), built)
	}
	for _, st := range []model.SourceType{model.SourcePrimary, model.SourceErgast} {
		src, err := reg.GetSource(st)
		if err != nil {
			t.Fatalf("GetSource(%s): %v", st, err)
		}
		if src.GetName() != string(st) {
			t.Errorf("GetName() = %q, want %q", src.GetName(), st)
		}
	}
	if _, err := reg.GetSource("unknown"); err == nil {
		t.Error("unregistered source should not be available")
	}
}
