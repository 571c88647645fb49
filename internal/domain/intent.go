package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EntityDomain is a target category of recommendation in the cultural graph.
type EntityDomain string

const (
	DomainPlace   EntityDomain = "place"
	DomainMovie   EntityDomain = "movie"
	DomainBook    EntityDomain = "book"
	DomainArtist  EntityDomain = "artist"
	DomainPodcast EntityDomain = "podcast"
	DomainBrand   EntityDomain = "brand"
)

// DefaultTake is the per-domain result count used when the extracted intent
// carries no hint.
const DefaultTake = 8

// AllDomains lists every domain the insights service understands.
var AllDomains = []EntityDomain{
	DomainPlace, DomainMovie, DomainBook, DomainArtist, DomainPodcast, DomainBrand,
}

// Valid reports whether the domain is one the insights service understands.
func (d EntityDomain) Valid() bool {
	switch d {
	case DomainPlace, DomainMovie, DomainBook, DomainArtist, DomainPodcast, DomainBrand:
		return true
	}
	return false
}

// URN returns the entity-type filter value expected by the insights endpoint.
func (d EntityDomain) URN() string {
	return "urn:entity:" + string(d)
}

// TimeRange bounds an intent in calendar time. Either bound may be empty.
// Bounds are ISO dates (YYYY-MM-DD) as emitted by the extractor.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Intent is the structured interpretation of a free-text request. It is
// built once per turn by intent extraction and is immutable afterwards.
// A non-nil Intent always has at least one valid domain; everything else
// may be empty ("just browse this domain").
type Intent struct {
	Domains   []EntityDomain `json:"domain"`
	MoodTags  []string       `json:"moodTags"`
	Location  string         `json:"location,omitempty"`
	TimeRange *TimeRange     `json:"timeRange,omitempty"`
	Take      int            `json:"take,omitempty"`
}

// EffectiveTake returns the per-domain result count, falling back to
// DefaultTake when the extractor gave no positive hint.
func (i *Intent) EffectiveTake() int {
	if i == nil || i.Take <= 0 {
		return DefaultTake
	}
	return i.Take
}

// rawIntent mirrors the JSON the extractor model emits. The model is not
// reliable about shapes: "domain" arrives as either a string or a list, and
// any optional field may be missing entirely.
type rawIntent struct {
	Domain   json.RawMessage `json:"domain"`
	MoodTags []string        `json:"moodTags"`
	Location string          `json:"location"`
	TimeRng  *TimeRange      `json:"timeRange"`
	Take     int             `json:"take"`
}

// ParseIntent turns the raw extractor output into an Intent. It tolerates
// markdown code fences around the JSON and the single-string domain shape.
// The literal "null" and an intent without any valid domain both yield
// (nil, error) — callers treat every error here as a soft miss.
func ParseIntent(text string) (*Intent, error) {
	trimmed := stripCodeFence(strings.TrimSpace(text))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("extractor returned no intent")
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("unparseable intent: %w", err)
	}

	domains, err := parseDomains(raw.Domain)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("intent has no valid domain")
	}

	intent := &Intent{
		Domains:   domains,
		MoodTags:  make([]string, 0, len(raw.MoodTags)),
		Location:  strings.TrimSpace(raw.Location),
		TimeRange: raw.TimeRng,
		Take:      raw.Take,
	}
	for _, tag := range raw.MoodTags {
		if t := strings.TrimSpace(tag); t != "" {
			intent.MoodTags = append(intent.MoodTags, t)
		}
	}
	if intent.TimeRange != nil && intent.TimeRange.Start == "" && intent.TimeRange.End == "" {
		intent.TimeRange = nil
	}
	return intent, nil
}

func parseDomains(raw json.RawMessage) ([]EntityDomain, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("intent is missing domain")
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("unrecognized domain shape: %s", string(raw))
		}
		names = []string{single}
	}

	var domains []EntityDomain
	for _, name := range names {
		d := EntityDomain(strings.ToLower(strings.TrimSpace(name)))
		if d.Valid() {
			domains = append(domains, d)
		}
	}
	return domains, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
