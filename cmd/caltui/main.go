package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/jpacker/caltui/internal"
	"github.com/jpacker/caltui/internal/config"
	"github.com/jpacker/caltui/internal/gcal"
	"github.com/jpacker/caltui/internal/journal"
	"github.com/jpacker/caltui/internal/mcp"
	"github.com/jpacker/caltui/internal/recommend"
	"github.com/jpacker/caltui/internal/schedule"
	"github.com/jpacker/caltui/internal/ui"
)

var flags struct {
	Config   string
	Timezone string
	Filter   string
	Date     internal.Date
	Server   string
	Debug    bool
}

func init() {
	flag.StringVar(&flags.Config, "config", "", "config file (default under the user config dir)")
	flag.StringVar(&flags.Timezone, "timezone", "", "IANA timezone, overrides config and TZ")
	flag.StringVar(&flags.Filter, "filter", "today", "today, tomorrow, this_week, next_week or a weekday name")
	flag.Var(&flags.Date, "date", "explicit anchor date (2006-01-02), overrides -filter")
	flag.StringVar(&flags.Server, "server", "", "calendar server binary, overrides config")
	flag.BoolVar(&flags.Debug, "debug", false, "write debug output to debug.log")
}

func main() {
	flag.Parse()

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	cfgPath := flags.Config
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to locate config dir:", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to load config:", err)
		os.Exit(1)
	}
	if flags.Server != "" {
		cfg.ServerPath = flags.Server
	}

	loc, err := resolveTimezone(flags.Timezone, cfg.Timezone)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to resolve timezone:", err)
		os.Exit(1)
	}

	anchor, mode, err := parseFilter(flags.Filter, time.Now().In(loc))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !flags.Date.IsZero() {
		anchor = flags.Date
	}

	var (
		debug     *internal.DebugLog
		debugFile *os.File
	)
	if flags.Debug {
		debugFile, err = os.Create("debug.log")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to open debug.log:", err)
			os.Exit(1)
		}
		defer debugFile.Close()
		debug = internal.NewDebugLog(debugFile)
	}

	conn, err := mcp.Dial(ctx, cfg.ServerPath, cfg.ServerArgs...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect to calendar server:", err)
		os.Exit(1)
	}
	defer conn.Close()

	cal := gcal.NewClient(conn, loc.String())
	cal.TaskLinkHint = cfg.TaskLinkHint
	if flags.Debug {
		cal.Verbose = true
		cal.Output = debugFile
	}

	var store ui.Journal
	if jrnl, err := journal.NewStorage(journalPath(cfg, cfgPath)); err != nil {
		debug.Printf("journal disabled: %v", err)
	} else {
		defer jrnl.Close()
		store = jrnl
	}

	var rec ui.Recommender
	if len(cfg.RecommendCommand) > 0 {
		runner := recommend.NewRunner(cfg.RecommendCommand)
		runner.Timeout = time.Duration(cfg.RecommendTimeoutSeconds) * time.Second
		rec = runner
	}

	model := ui.New(ctx, ui.Options{
		Calendar:    cal,
		Recommender: rec,
		Journal:     store,
		CoreHours:   internal.CoreHours{Start: cfg.CoreHours.Start, End: cfg.CoreHours.End},
		Anchor:      anchor,
		Mode:        mode,
		Debug:       debug,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "UI failed:", err)
		os.Exit(1)
	}
}

// resolveTimezone prefers the flag, then the config file, then TZ/system
// local.
func resolveTimezone(flagTZ, cfgTZ string) (*time.Location, error) {
	switch {
	case flagTZ != "":
		return time.LoadLocation(flagTZ)
	case cfgTZ != "":
		return time.LoadLocation(cfgTZ)
	}
	return time.Now().Location(), nil
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// parseFilter maps the -filter value to an anchor date and view width.
// Weekday names resolve to their next occurrence.
func parseFilter(filter string, now time.Time) (internal.Date, schedule.ViewMode, error) {
	today := internal.NewDateFromTime(now)

	switch strings.ToLower(filter) {
	case "", "today":
		return today, schedule.SingleDay, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), schedule.SingleDay, nil
	case "this_week":
		return today, schedule.TwoDay, nil
	case "next_week":
		ahead := (int(time.Monday) - int(today.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), schedule.TwoDay, nil
	}

	if wd, ok := weekdays[strings.ToLower(filter)]; ok {
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), schedule.SingleDay, nil
	}
	return internal.Date{}, schedule.SingleDay, fmt.Errorf("unknown filter %q", filter)
}

func journalPath(cfg config.Config, cfgPath string) string {
	if cfg.JournalPath != "" {
		return cfg.JournalPath
	}
	return filepath.Join(filepath.Dir(cfgPath), "journal.db")
}
