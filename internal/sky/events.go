package sky

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
)

// Event is one discrete astronomy event inside a query window.
type Event struct {
	// Type is planet_rise, planet_set, or moon_phase
	Type string `json:"type"`

	// Time in ISO-8601 UTC
	Time string `json:"time"`

	// Description is a human-readable Spanish summary
	Description string `json:"description"`
}

var moonPhaseNames = [4]string{
	"Luna nueva",
	"Cuarto creciente",
	"Luna llena",
	"Cuarto menguante",
}

// Events finds every planet rise/set transition and every principal lunar
// phase inside [t0, t1], ordered by event time ascending. A failure computing
// one body's events drops that body only; an empty result is valid.
func (s *Service) Events(obs astro.Observer, t0, t1 time.Time) []Event {
	if !t1.After(t0) {
		return []Event{}
	}

	type timed struct {
		at time.Time
		ev Event
	}
	var events []timed

	for _, body := range ephemeris.Planets {
		transitions, err := s.provider.RisingsAndSettings(body, obs, t0, t1)
		if err != nil {
			continue
		}
		for _, tr := range transitions {
			card := astro.Cardinal(tr.AzimuthDeg)
			ev := Event{Time: astro.FormatUTC(tr.Time)}
			if tr.Rising {
				ev.Type = "planet_rise"
				ev.Description = fmt.Sprintf("%s sale por el %s", bodyNames[body], card)
			} else {
				ev.Type = "planet_set"
				ev.Description = fmt.Sprintf("%s se pone por el %s", bodyNames[body], card)
			}
			events = append(events, timed{at: tr.Time, ev: ev})
		}
	}

	if quarters, err := s.provider.MoonQuarters(t0, t1); err == nil {
		for _, q := range quarters {
			pct := int(math.Round(q.IlluminatedFraction * 100))
			events = append(events, timed{
				at: q.Time,
				ev: Event{
					Type:        "moon_phase",
					Time:        astro.FormatUTC(q.Time),
					Description: fmt.Sprintf("%s (%d%%)", moonPhaseNames[q.Quarter], pct),
				},
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.Before(events[j].at)
	})

	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.ev
	}
	return out
}
