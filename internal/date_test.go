package internal

import (
	"flag"
	"io"
	"testing"
	"time"
)

func TestDateFlagValue(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var d Date
	fs.Var(&d, "date", "")

	if err := fs.Parse([]string{"-date", "2026-03-02"}); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2026-03-02" {
		t.Errorf("parsed date = %s", d)
	}
	if d.IsZero() {
		t.Error("parsed date reads as zero")
	}

	if err := fs.Parse([]string{"-date", "yesterday"}); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestDateWeekend(t *testing.T) {
	sat := NewDate(2026, time.March, 7, time.UTC)
	mon := NewDate(2026, time.March, 2, time.UTC)
	if !sat.Weekend() {
		t.Error("Saturday not a weekend")
	}
	if mon.Weekend() {
		t.Error("Monday reported as weekend")
	}
}

func TestDateAddDateDropsTimeOfDay(t *testing.T) {
	d := NewDateFromTime(time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC))
	next := d.AddDate(0, 0, 1)
	if next.String() != "2026-03-03" {
		t.Errorf("got %s", next)
	}
	if h := next.Hour(); h != 0 {
		t.Errorf("time of day leaked: hour = %d", h)
	}
}
