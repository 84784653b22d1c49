package ergast

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

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

const season2021 = `{"MRData": {"total": "4", "RaceTable": {"season": "2021", "Races": [
  {"season": "2021", "round": "1", "raceName": "Bahrain Grand Prix",
   "Circuit": {"circuitId": "bahrain", "circuitName": "Bahrain International Circuit",
     "Location": {"lat": "26.0325", "long": "50.5106", "locality": "Sakhir", "country": "Bahrain"}},
   "date": "2021-03-28", "time": "15:00:00Z"},
  {"season": "2021", "round": "2", "raceName": "Emilia Romagna Grand Prix",
   "Circuit": {"circuitId": "imola", "Location": {"locality": "Imola", "country": "Italy"}},
   "date": "2021-04-18"},
  {"season": "2021", "round": "3", "raceName": "Portuguese Grand Prix",
   "Circuit": {"circuitId": "portimao", "Location": {"locality": "Portimão", "country": "Portugal"}},
   "date": "TBC", "time": "14:00:00Z"},
  {"season": "2021", "round": "x", "raceName": "Broken Grand Prix",
   "Circuit": {"Location": {"locality": "Nowhere", "country": "Nowhere"}},
   "date": "2021-05-09"}
]}}}`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fetch2021(t *testing.T) *schedule.Table {
	t.Helper()
	f := &fakeFetcher{body: season2021}
	a := NewAdapter(NewClient("https://api.example.test/ergast/f1/", f), quietLogger())
	records, err := a.FetchSchedule(context.Background(), 2021)
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	if len(f.urls) != 1 || f.urls[0] != "https://api.example.test/ergast/f1/2021.json?limit=100" {
		t.Errorf("urls = %v", f.urls)
	}
	tbl, err := schedule.NewTable(2021, records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestFetchSchedule_SynthesizesSessions(t *testing.T) {
	tbl := fetch2021(t)
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (non-integer round skipped)", tbl.Len())
	}
	ev := tbl.Event(0)
	if ev.Country != "Bahrain" || ev.Location != "Sakhir" || ev.EventName != "Bahrain Grand Prix" {
		t.Errorf("unexpected metadata %+v", ev)
	}
	if ev.OfficialEventName != "" || ev.F1APISupport || ev.EventFormat != schedule.FormatConventional {
		t.Errorf("unexpected defaults %+v", ev)
	}

	race := time.Date(2021, 3, 28, 15, 0, 0, 0, time.UTC)
	friday := time.Date(2021, 3, 26, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2021, 3, 27, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		id   schedule.SessionIdentifier
		name string
		date time.Time
	}{
		{"FP1", schedule.SessionPractice1, friday},
		{"FP2", schedule.SessionPractice2, friday},
		{"FP3", schedule.SessionPractice3, saturday},
		{"Q", schedule.SessionQualifying, saturday},
		{"R", schedule.SessionRace, race},
	}
	for i, tt := range tests {
		name, date := ev.SessionSlot(i + 1)
		if name != tt.name || !date.Equal(tt.date) {
			t.Errorf("slot %d = %q %v, want %q %v", i+1, name, date, tt.name, tt.date)
		}
		got, err := ev.SessionDate(tt.id)
		if err != nil || !got.Equal(tt.date) {
			t.Errorf("SessionDate(%s) = %v, %v", tt.id, got, err)
		}
	}
	if !ev.EventDate.Equal(race) {
		t.Errorf("EventDate = %v", ev.EventDate)
	}
}

func TestFetchSchedule_MissingTime(t *testing.T) {
	ev, err := fetch2021(t).GetEventByRound(2)
	if err != nil {
		t.Fatalf("GetEventByRound: %v", err)
	}
	if !ev.Session5Date.Equal(time.Date(2021, 4, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("race date = %v", ev.Session5Date)
	}
	if !ev.Session1Date.Equal(time.Date(2021, 4, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FP1 date = %v", ev.Session1Date)
	}
}

func TestFetchSchedule_BadDateOnlyAffectsThatRound(t *testing.T) {
	tbl := fetch2021(t)
	ev, err := tbl.GetEventByRound(3)
	if err != nil {
		t.Fatalf("GetEventByRound: %v", err)
	}
	if ev.Location != "Portimão" {
		t.Errorf("Location = %q", ev.Location)
	}
	if !ev.EventDate.IsZero() {
		t.Errorf("EventDate should be null, got %v", ev.EventDate)
	}
	for i := 1; i <= schedule.SessionSlots; i++ {
		name, date := ev.SessionSlot(i)
		if name == "" || !date.IsZero() {
			t.Errorf("slot %d = %q %v, want named session with null date", i, name, date)
		}
	}
	if first, _ := tbl.GetEventByRound(1); first.EventDate.IsZero() {
		t.Error("neighbouring round lost its date")
	}
}

func TestFetchSchedule_TimezoneOffset(t *testing.T) {
	body := `{"MRData": {"RaceTable": {"Races": [
	  {"round": "1", "raceName": "Late Race", "date": "2023-11-18", "time": "22:00:00-08:00"}
	]}}}`
	a := NewAdapter(NewClient("http://x", &fakeFetcher{body: body}), quietLogger())
	records, err := a.FetchSchedule(context.Background(), 2023)
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	tbl, err := schedule.NewTable(2023, records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	ev := tbl.Event(0)
	if !ev.EventDate.Equal(time.Date(2023, 11, 18, 22, 0, 0, 0, time.UTC)) || ev.EventDate.Location() != time.UTC {
		t.Errorf("EventDate = %v", ev.EventDate)
	}
	// 推算以当地比赛日为准
	if !ev.Session1Date.Equal(time.Date(2023, 11, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FP1 date = %v", ev.Session1Date)
	}
	if !ev.Session4Date.Equal(time.Date(2023, 11, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Q date = %v", ev.Session4Date)
	}
}

func TestFetchSchedule_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAdapter(NewClient("http://x", &fakeFetcher{err: boom}), quietLogger())
	if _, err := a.FetchSchedule(context.Background(), 2021); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped fetch error", err)
	}
	a = NewAdapter(NewClient("http://x", &fakeFetcher{body: "<html>"}), quietLogger())
	if _, err := a.FetchSchedule(context.Background(), 2021); err == nil {
		t.Error("expected decode error")
	}
}
