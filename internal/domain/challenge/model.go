package challenge

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which renderer variant produced a challenge.
type Kind string

const (
	KindText Kind = "text"
	KindMath Kind = "math"
)

// Challenge is one image + solution pair for a single day. Challenges are
// created once by the generator and immutable afterwards.
type Challenge struct {
	ChallengeNumber string
	CreatedAt       time.Time
	ImageURL        string
	Solution        string
}

func (c Challenge) Validate() error {
	if strings.TrimSpace(c.ChallengeNumber) == "" {
		return fmt.Errorf("challenge number is required")
	}
	if strings.TrimSpace(c.ImageURL) == "" {
		return fmt.Errorf("challenge %s: image url is required", c.ChallengeNumber)
	}
	if strings.TrimSpace(c.Solution) == "" {
		return fmt.Errorf("challenge %s: solution is required", c.ChallengeNumber)
	}
	return nil
}

// Matches reports whether a player's answer solves the challenge. Leading and
// trailing whitespace is ignored, letter case is ignored, interior whitespace
// is significant. An empty trimmed answer never matches.
func (c Challenge) Matches(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	return strings.EqualFold(answer, c.Solution)
}

// DaySet is the full ordered challenge list for one calendar day. At most one
// DaySet exists per date key; regeneration overwrites it wholesale.
type DaySet struct {
	Date     string
	Captchas []Challenge
}

func (d DaySet) Validate() error {
	if !ValidDateKey(d.Date) {
		return fmt.Errorf("invalid date key %q", d.Date)
	}
	if len(d.Captchas) == 0 {
		return fmt.Errorf("day set %s: at least one challenge is required", d.Date)
	}
	for _, c := range d.Captchas {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("day set %s: %w", d.Date, err)
		}
	}
	return nil
}

const dateKeyLayout = "2006-01-02"

// DateKey formats a wall-clock instant as the calendar day key in the
// canonical game timezone. Callers compute it once per operation and pass it
// down; never recompute mid-operation.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateKeyLayout)
}

func ValidDateKey(s string) bool {
	_, err := time.Parse(dateKeyLayout, s)
	return err == nil
}

// SecondsUntilNextDay reports how long until the day key rolls over.
func SecondsUntilNextDay(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return int(midnight.Sub(local).Seconds())
}

// Number builds the per-day challenge identifier, e.g. "2025-06-22-0".
func Number(dateKey string, index int) string {
	return dateKey + "-" + strconv.Itoa(index)
}
