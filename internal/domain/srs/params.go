package srs

import (
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

// DefaultOffsets is the relative schedule: days from lastReviewedAt to the next
// due date, indexed by the current stage. Stage 6 (mastered) has no entry.
var DefaultOffsets = [6]int{1, 2, 4, 8, 15, 30}

// Params defines all configurable parameters for the scheduling policy.
type Params struct {
	// Offsets maps a non-terminal stage to the days until the next review.
	Offsets map[domain.Stage]int

	// Location is the time zone used to truncate timestamps to calendar days.
	Location *time.Location
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
type ParamsConfig struct {
	// Offsets replaces the whole table when it holds exactly six positive,
	// non-decreasing values.
	Offsets []int

	// Location overrides the local time zone.
	Location *time.Location
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	offsets := make(map[domain.Stage]int, len(DefaultOffsets))
	for stage, days := range DefaultOffsets {
		offsets[domain.Stage(stage)] = days
	}
	return &Params{
		Offsets:  offsets,
		Location: time.Local,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Invalid overrides are ignored and the defaults kept.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if validOffsets(config.Offsets) {
		for stage, days := range config.Offsets {
			params.Offsets[domain.Stage(stage)] = days
		}
	}

	if config.Location != nil {
		params.Location = config.Location
	}

	return params
}

func validOffsets(offsets []int) bool {
	if len(offsets) != len(DefaultOffsets) {
		return false
	}
	prev := 0
	for _, days := range offsets {
		if days <= 0 || days < prev {
			return false
		}
		prev = days
	}
	return true
}

// offsetFor returns the offset for stage and whether one is defined.
func (p *Params) offsetFor(stage domain.Stage) (int, bool) {
	days, ok := p.Offsets[stage]
	return days, ok
}
