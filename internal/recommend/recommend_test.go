package recommend

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParse(t *testing.T) {
	output := `
Here is my analysis of your schedule.

1. Decline the weekly sync, it conflicts with focus time
Reason: You have not attended in three weeks
Time: Monday 10:00

CANCEL: Remove the duplicate 1:1
Reason: Same meeting exists on Tuesday
From: Monday 14:00
To: Tuesday 14:00

Some trailing chatter that is not a recommendation.
`
	recs := Parse(output)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}

	if !strings.HasPrefix(recs[0].Header, "1. Decline") {
		t.Errorf("first header = %q", recs[0].Header)
	}
	if len(recs[0].Detail) != 2 {
		t.Errorf("first detail = %v, want Reason and Time", recs[0].Detail)
	}

	if !strings.HasPrefix(recs[1].Header, "CANCEL:") {
		t.Errorf("second header = %q", recs[1].Header)
	}
	if len(recs[1].Detail) != 3 {
		t.Errorf("second detail = %v, want Reason, From and To", recs[1].Detail)
	}
}

func TestParseIgnoresDetailBeforeHeader(t *testing.T) {
	recs := Parse("Reason: orphaned detail line\n")
	if len(recs) != 0 {
		t.Fatalf("got %v, want none", recs)
	}
}

func TestParseTruncatesLongLines(t *testing.T) {
	long := "1. " + strings.Repeat("x", 200)
	recs := Parse(long)
	if len(recs) != 1 {
		t.Fatal("header not recognized")
	}
	if len(recs[0].Header) != maxLineLen {
		t.Errorf("header length = %d, want %d", len(recs[0].Header), maxLineLen)
	}
	if !strings.HasSuffix(recs[0].Header, "...") {
		t.Errorf("truncated header %q lacks ellipsis", recs[0].Header)
	}
}

func TestParseTruncatesOnRuneBoundary(t *testing.T) {
	long := "1. " + strings.Repeat("安", 80)
	recs := Parse(long)
	if len(recs) != 1 {
		t.Fatal("header not recognized")
	}
	if !utf8.ValidString(recs[0].Header) {
		t.Errorf("truncation split a rune: %q", recs[0].Header)
	}
	if len(recs[0].Header) > maxLineLen {
		t.Errorf("header length = %d, want at most %d", len(recs[0].Header), maxLineLen)
	}
}

func TestParseEmpty(t *testing.T) {
	if recs := Parse(""); len(recs) != 0 {
		t.Fatalf("got %v, want none", recs)
	}
}

func TestRunnerNoCommand(t *testing.T) {
	r := NewRunner(nil)
	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error with no command configured")
	}
}

func TestRunnerTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a process")
	}
	r := NewRunner([]string{"sleep", "5"})
	r.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := r.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("command was not killed at the deadline")
	}
}

func TestRunnerSubstitutesEventFile(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a process")
	}
	r := NewRunner([]string{"cat", "%s"})

	recs, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// The JSON payload contains no recommendation headers.
	if len(recs) != 0 {
		t.Fatalf("got %v, want none", recs)
	}
}
