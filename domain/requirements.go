package domain

import (
	"encoding/json"
	"strings"
)

// Requirements is the canonical travel-requirements document. The full key set
// is always present on the wire: nested objects are struct values and leaves are
// nullable pointers, so a marshal never drops a key regardless of how little has
// been collected.
type Requirements struct {
	DestinationCity *string       `json:"destination_city"`
	TripDates       TripDates     `json:"trip_dates"`
	DurationDays    *int          `json:"duration_days"`
	Travelers       Travelers     `json:"travelers"`
	BudgetTotalSGD  *float64      `json:"budget_total_sgd"`
	Pace            *string       `json:"pace"`
	Optional        OptionalPrefs `json:"optional"`
}

// TripDates holds the travel window.
type TripDates struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// Travelers holds the party size. Serializes at least
// {"adults": null, "children": null}.
type Travelers struct {
	Adults   *int `json:"adults"`
	Children *int `json:"children"`
}

// OptionalPrefs holds the seven optional preference slots.
type OptionalPrefs struct {
	EcoPreferences        *string       `json:"eco_preferences"`
	DietaryPreferences    *string       `json:"dietary_preferences"`
	Interests             []string      `json:"interests"`
	Uninterests           []string      `json:"uninterests"`
	AccessibilityNeeds    *string       `json:"accessibility_needs"`
	AccommodationLocation Accommodation `json:"accommodation_location"`
	GroupType             *string       `json:"group_type"`
}

// Accommodation holds the preferred lodging area.
type Accommodation struct {
	Neighborhood *string `json:"neighborhood"`
}

// CompletionInfo is the result of evaluating a requirements document.
type CompletionInfo struct {
	MandatoryComplete bool `json:"mandatory_complete"`
	AllComplete       bool `json:"all_complete"`
	OptionalFilled    int  `json:"optional_filled"`
}

// State maps the completion info to its exposed state string.
func (c CompletionInfo) State() CompletionState {
	switch {
	case c.AllComplete:
		return CompletionAllComplete
	case c.MandatoryComplete:
		return CompletionMandatoryComplete
	default:
		return CompletionIncomplete
	}
}

// NewRequirements returns the full document shape with every leaf null and
// every sequence empty.
func NewRequirements() *Requirements {
	return &Requirements{
		Optional: OptionalPrefs{
			Interests:   []string{},
			Uninterests: []string{},
		},
	}
}

// candidateEnvelope matches the target schema the extraction agent is prompted
// with, where the document sits under a top-level "requirements" key.
type candidateEnvelope struct {
	Requirements *Requirements `json:"requirements"`
}

// DecodeCandidate parses an extracted JSON fragment into a requirements
// document. Both the enveloped form {"requirements": {...}} and the bare
// document are accepted. A parse failure returns an error so the caller can
// keep its current document; a populated document is never replaced by a
// fragment that does not parse.
func DecodeCandidate(raw []byte) (*Requirements, error) {
	var env candidateEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Requirements != nil {
		env.Requirements.normalize()
		return env.Requirements, nil
	}

	doc := &Requirements{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	doc.normalize()
	return doc, nil
}

// normalize keeps nil sequences out of the document so the wire shape stays
// stable ([] rather than null).
func (r *Requirements) normalize() {
	if r.Optional.Interests == nil {
		r.Optional.Interests = []string{}
	}
	if r.Optional.Uninterests == nil {
		r.Optional.Uninterests = []string{}
	}
}

// EvaluateCompletion derives completion status from the document. The six
// mandatory fields gate mandatory_complete; the seven optional slots gate
// all_complete. "no_preference" and "none" are ordinary non-empty strings and
// count as filled.
func EvaluateCompletion(r *Requirements) CompletionInfo {
	if r == nil {
		return CompletionInfo{}
	}

	mandatory := stringFilled(r.DestinationCity) &&
		stringFilled(r.TripDates.StartDate) &&
		stringFilled(r.TripDates.EndDate) &&
		r.DurationDays != nil &&
		r.Travelers.Adults != nil &&
		r.Travelers.Children != nil &&
		r.BudgetTotalSGD != nil &&
		stringFilled(r.Pace)

	filled := 0
	if stringFilled(r.Optional.EcoPreferences) {
		filled++
	}
	if stringFilled(r.Optional.DietaryPreferences) {
		filled++
	}
	if len(r.Optional.Interests) > 0 {
		filled++
	}
	if len(r.Optional.Uninterests) > 0 {
		filled++
	}
	if stringFilled(r.Optional.AccessibilityNeeds) {
		filled++
	}
	if stringFilled(r.Optional.AccommodationLocation.Neighborhood) {
		filled++
	}
	if stringFilled(r.Optional.GroupType) {
		filled++
	}

	return CompletionInfo{
		MandatoryComplete: mandatory,
		AllComplete:       mandatory && filled == OptionalSlotCount,
		OptionalFilled:    filled,
	}
}

// OptionalSlotCount is the number of optional preference slots.
const OptionalSlotCount = 7

// ExtractInterests returns the collected interest list, empty when absent.
func ExtractInterests(r *Requirements) []string {
	if r == nil || len(r.Optional.Interests) == 0 {
		return []string{}
	}
	out := make([]string, len(r.Optional.Interests))
	copy(out, r.Optional.Interests)
	return out
}

// HasMandatoryData reports whether any of the leading mandatory fields has been
// collected. Used to choose between the off-topic redirect variants.
func (r *Requirements) HasMandatoryData() bool {
	if r == nil {
		return false
	}
	return stringFilled(r.DestinationCity) ||
		stringFilled(r.TripDates.StartDate) ||
		r.BudgetTotalSGD != nil
}

func stringFilled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
