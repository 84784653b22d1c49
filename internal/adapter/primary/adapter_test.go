package primary

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

type fakeFetcher struct {
	body string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*model.Response, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return &model.Response{URL: url, StatusCode: 200, Text: f.body}, nil
}

func newAdapter(f *fakeFetcher) *Adapter {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(&config.SourceConfig{BaseURL: "https://example.test/f1schedule/"}, f, logger).(*Adapter)
}

const columnar = `{
  "round_number": {"0": 0, "1": 1, "10": 2},
  "country": {"0": "Bahrain", "1": "Bahrain", "10": "Saudi Arabia"},
  "location": {"0": "Sakhir", "1": "Sakhir", "10": "Jeddah"},
  "official_event_name": {"0": "FORMULA 1 ARAMCO PRE-SEASON TESTING 2022", "1": "FORMULA 1 GULF AIR BAHRAIN GRAND PRIX 2022", "10": "FORMULA 1 STC SAUDI ARABIAN GRAND PRIX 2022"},
  "event_date": {"0": 1647475200000, "1": 1647820800000, "10": 1648339200000},
  "event_name": {"0": "Pre-Season Test", "1": "Bahrain Grand Prix", "10": "Saudi Arabian Grand Prix"},
  "event_format": {"0": "testing", "1": "conventional", "10": "conventional"},
  "session5": {"0": null, "1": "Race", "10": "Race"},
  "session5_date": {"0": null, "1": 1647788400000, "10": 1648393200000},
  "f1_api_support": {"0": true, "1": true, "10": true}
}`

func TestFetchSchedule_Columnar(t *testing.T) {
	f := &fakeFetcher{body: columnar}
	a := newAdapter(f)

	records, err := a.FetchSchedule(context.Background(), 2022)
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	if len(f.urls) != 1 || f.urls[0] != "https://example.test/f1schedule/schedule_2022.json" {
		t.Errorf("urls = %v", f.urls)
	}
	tbl, err := schedule.NewTable(2022, records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	// 行号按数值排序："10" 排在 "1" 之后
	for i, want := range []int{0, 1, 2} {
		if got := tbl.Event(i).RoundNumber; got != want {
			t.Errorf("row %d round = %d, want %d", i, got, want)
		}
	}
	race := tbl.Event(1)
	if !race.Session5Date.Equal(time.Date(2022, 3, 20, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("race date = %v", race.Session5Date)
	}
	if !tbl.Event(0).Session5Date.IsZero() || tbl.Event(0).Session5 != "" {
		t.Errorf("null values should stay empty: %+v", tbl.Event(0))
	}
}

func TestFetchSchedule_Records(t *testing.T) {
	body := `[
	  {"round_number": 1, "country": "Italy", "location": "Imola", "event_date": "2024-05-19T00:00:00",
	   "event_name": "Emilia Romagna Grand Prix", "event_format": "conventional",
	   "session5": "Race", "session5_date": "2024-05-19T15:00:00+02:00", "f1_api_support": true}
	]`
	records, err := newAdapter(&fakeFetcher{body: body}).FetchSchedule(context.Background(), 2024)
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	tbl, err := schedule.NewTable(2024, records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	ev := tbl.Event(0)
	if ev.Location != "Imola" || !ev.Session5Date.Equal(time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestFetchSchedule_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := newAdapter(&fakeFetcher{err: boom}).FetchSchedule(context.Background(), 2023); !errors.Is(err, boom) {
		t.Errorf("fetch error not wrapped: %v", err)
	}
	for _, body := range []string{"", "not json", `"string"`, `[1, 2]`, `{"round_number": {"x": 1}}`} {
		if _, err := newAdapter(&fakeFetcher{body: body}).FetchSchedule(context.Background(), 2023); err == nil {
			t.Errorf("body %q: expected decode error", body)
		}
	}
}
