package version

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

// Заполняются через -ldflags "-X planboard/internal/version.Date=..."
var (
	Date   string // YYYY-MM-DD (UTC)
	Commit string
	Branch string
	CI     string
)

// epoch - день первой сборки planboard, номер сборки считается в днях от него
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build - сведения о сборке для /version и стартового лога
type Build struct {
	ID     int    `json:"build_id"`
	Date   string `json:"date"`
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	CI     string `json:"ci,omitempty"`
	Dirty  bool   `json:"dirty,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Known - номер сборки вычислен
func (b Build) Known() bool {
	return b.Error == ""
}

// BuildNumber - число полных дней от epoch до date
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format("2006-01-02"))
	}
	return int(t.Sub(epoch) / (24 * time.Hour)), nil
}

// Current собирает сведения из ldflags. Без ldflags коммит берется из VCS-меток бинаря.
func Current() Build {
	b := Build{Date: Date, Commit: Commit, Branch: Branch, CI: CI}
	if b.Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			b.Commit, b.Dirty = fromVCS(info.Settings)
		}
	}

	id, err := BuildNumber(b.Date)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.ID = id
	return b
}

func fromVCS(settings []debug.BuildSetting) (commit string, dirty bool) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return commit, dirty
}

// Fields - поля для структурного лога
func (b Build) Fields() logrus.Fields {
	f := logrus.Fields{
		"build":  b.ID,
		"commit": or(b.Commit, "unknown"),
	}
	if !b.Known() {
		f["build"] = "unknown"
	}
	if b.Branch != "" {
		f["branch"] = b.Branch
	}
	if b.Dirty {
		f["dirty"] = true
	}
	return f
}

func (b Build) String() string {
	if !b.Known() {
		return fmt.Sprintf("Build unknown (%s)", b.Error)
	}
	commit := or(b.Commit, "unknown")
	if b.Dirty {
		commit += "+dirty"
	}
	return fmt.Sprintf("Build %d (%s) commit[%s] branch[%s] ci[%s]",
		b.ID, b.Date, commit, or(b.Branch, "unknown"), or(b.CI, "local"))
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
