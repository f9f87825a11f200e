// Package kinds defines the synthetic record shapes and the factories that
// fill them from a seeded fake data source.
package kinds

import (
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jonboulle/clockwork"
)

// Source is the per-run randomness and time provider shared by factories.
// Factories draw from it sequentially, so a Source must not be shared
// between goroutines.
type Source struct {
	Faker *gofakeit.Faker
	Clock clockwork.Clock
	Seed  int64
}

// NewSource creates a source seeded with seed. A nil clock means wall time.
func NewSource(seed int64, clock clockwork.Clock) *Source {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Source{
		Faker: gofakeit.New(seed),
		Clock: clock,
		Seed:  seed,
	}
}

// pastYears bounds generated publication and creation dates.
const pastYears = 10

func (s *Source) score(min, max float64) float64 {
	return round2(s.Faker.Float64Range(min, max))
}

// pastTimestamp returns an RFC 3339 time within the last pastYears years.
func (s *Source) pastTimestamp() string {
	now := s.Clock.Now()
	t := s.Faker.DateRange(now.AddDate(-pastYears, 0, 0), now)
	return formatTime(t.Truncate(time.Second))
}

// words returns between min and max lowercase words.
func (s *Source) words(min, max int) []string {
	out := make([]string, s.Faker.IntRange(min, max))
	for i := range out {
		out[i] = strings.ToLower(s.Faker.Word())
	}
	return out
}

// text builds whole sentences up to maxChars bytes.
func (s *Source) text(maxChars int) string {
	var b strings.Builder
	for {
		sentence := s.Faker.Sentence(s.Faker.IntRange(6, 14))
		if b.Len() == 0 {
			if len(sentence) > maxChars {
				return strings.TrimSpace(sentence[:maxChars])
			}
		} else if b.Len()+1+len(sentence) > maxChars {
			return b.String()
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
