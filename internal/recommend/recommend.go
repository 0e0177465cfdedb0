// Package recommend shells out to an external assistant command for
// schedule triage suggestions and parses its free-form output into
// displayable recommendations.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jpacker/caltui/internal"
)

const DefaultTimeout = 120 * time.Second

// Recommendation is one suggestion: a headline plus the detail lines that
// followed it.
type Recommendation struct {
	Header string
	Detail []string
}

// Runner invokes the assistant command with the event set written to a
// temporary JSON file. The last argument of Command is treated as a
// prompt template; a %s inside it receives the file path.
type Runner struct {
	Command []string
	Dir     string
	Timeout time.Duration
}

func NewRunner(command []string) *Runner {
	return &Runner{
		Command: command,
		Timeout: DefaultTimeout,
	}
}

type eventFile struct {
	Events []internal.Event `json:"events"`
	Count  int              `json:"count"`
}

// Run writes the events to a temp file, runs the command, and parses its
// stdout. The child is killed when ctx is canceled or the timeout lapses.
func (r *Runner) Run(ctx context.Context, events []internal.Event) ([]Recommendation, error) {
	if len(r.Command) == 0 {
		return nil, fmt.Errorf("recommend: no command configured")
	}

	f, err := os.CreateTemp("", "caltui-events-*.json")
	if err != nil {
		return nil, fmt.Errorf("recommend: creating event file: %w", err)
	}
	defer os.Remove(f.Name())

	payload := eventFile{Events: events, Count: len(events)}
	if err := json.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return nil, fmt.Errorf("recommend: writing event file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("recommend: writing event file: %w", err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := make([]string, len(r.Command)-1)
	copy(args, r.Command[1:])
	for i, a := range args {
		if strings.Contains(a, "%s") {
			args[i] = fmt.Sprintf(a, f.Name())
		}
	}

	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("recommend: command timed out after %s", timeout)
		}
		return nil, fmt.Errorf("recommend: running %s: %w", r.Command[0], err)
	}
	return Parse(string(out)), nil
}

var headerRe = regexp.MustCompile(`^(\d+\.\s+|[A-Z][A-Z_]+:\s*)`)

var detailPrefixes = []string{"Reason:", "Time:", "From:", "To:"}

const maxLineLen = 100

// Parse extracts recommendations from the assistant's output. A line
// starting with a numbered prefix or an ALL_CAPS action tag opens a new
// recommendation; known detail lines attach to the current one. Everything
// else is ignored.
func Parse(output string) []Recommendation {
	var recs []Recommendation
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if headerRe.MatchString(line) {
			recs = append(recs, Recommendation{Header: truncate(line)})
			continue
		}
		if len(recs) == 0 {
			continue
		}
		for _, p := range detailPrefixes {
			if strings.HasPrefix(line, p) {
				cur := &recs[len(recs)-1]
				cur.Detail = append(cur.Detail, truncate(line))
				break
			}
		}
	}
	return recs
}

func truncate(s string) string {
	if len(s) <= maxLineLen {
		return s
	}
	cut := maxLineLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
