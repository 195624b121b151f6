// Package schedule turns the free-text dates leaders type ("tomorrow 8 pm",
// "next friday at 9pm") into challenge schedule times.
package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"majestic-dominion/internal/domain"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// "932pm" -> "9:32 pm", which when does not read on its own.
var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s?(am|pm)\b`)

type Parser struct {
	when *when.Parser
	loc  *time.Location
}

// NewParser reads dates relative to loc; nil means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{when: w, loc: loc}
}

// Parse resolves input against now. RFC3339 timestamps are accepted as-is.
// The result is in UTC and must lie in the future.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", domain.ErrInvalidSchedule)
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		text := strings.ToLower(raw)
		text = compactClock.ReplaceAllString(text, "$1:$2 $3")

		res, perr := p.when.Parse(text, now.In(p.loc))
		if perr != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidSchedule, raw, perr)
		}
		if res == nil {
			return time.Time{}, fmt.Errorf("%w: could not understand %q", domain.ErrInvalidSchedule, raw)
		}
		at = res.Time
	}

	at = at.UTC().Truncate(time.Minute)
	if !at.After(now.UTC()) {
		return time.Time{}, fmt.Errorf("%w: %s is in the past", domain.ErrInvalidSchedule, at.Format(time.RFC3339))
	}
	return at, nil
}
