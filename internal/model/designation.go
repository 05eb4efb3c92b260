package model

import "time"

// Category names a designation category.
type Category string

const (
	CategoryOverheating Category = "overheating"
	CategoryCaution     Category = "caution"
	CategoryWarning     Category = "warning"
)

// InsufficientData is the placeholder reason used when a category cannot be
// evaluated for lack of history.
const InsufficientData = "insufficient data"

// RuleOutcome is the result of one named condition.
type RuleOutcome struct {
	Value       float64            `json:"val"`
	Threshold   float64            `json:"threshold"`
	Triggered   bool               `json:"triggered"`
	TargetPrice *float64           `json:"target_price,omitempty"`
	AtMax       *bool              `json:"at_max,omitempty"`
	Description string             `json:"description,omitempty"`
	Counters    map[string]float64 `json:"counters,omitempty"`
}

// CategoryResult holds the outcome of one category evaluation. When Reason is
// set the category could not be evaluated and Details is nil.
type CategoryResult struct {
	Category  Category
	Triggered bool
	Reason    string
	Details   map[string]RuleOutcome
	// Rules lists the keys of Details in evaluation order.
	Rules []string
}

// Insufficient builds the placeholder result for a category lacking history.
func Insufficient(c Category) CategoryResult {
	return CategoryResult{Category: c, Reason: InsufficientData}
}

// Add records a rule outcome, keeping evaluation order.
func (r *CategoryResult) Add(name string, o RuleOutcome) {
	if r.Details == nil {
		r.Details = make(map[string]RuleOutcome)
	}
	if _, ok := r.Details[name]; !ok {
		r.Rules = append(r.Rules, name)
	}
	r.Details[name] = o
}

// DetailsValue returns the placeholder reason or the details map, matching
// the wire shape where "details" is either a string or an object.
func (r CategoryResult) DetailsValue() any {
	if r.Reason != "" {
		return r.Reason
	}
	return r.Details
}

// NearestTargetPrice returns the lowest target price among the category's
// rules, if any rule carries one.
func (r CategoryResult) NearestTargetPrice() (float64, bool) {
	var best float64
	found := false
	for _, name := range r.Rules {
		tp := r.Details[name].TargetPrice
		if tp == nil || !Defined(*tp) {
			continue
		}
		if !found || *tp < best {
			best = *tp
			found = true
		}
	}
	return best, found
}

// ReleaseStatus is the state of a warning release scan.
type ReleaseStatus string

const (
	ReleaseAwaiting ReleaseStatus = "awaiting_first_determination"
	ReleaseReleased ReleaseStatus = "released"
	ReleasePending  ReleaseStatus = "pending"
)

// ReleaseFails are the three conditions that block a release on a given day.
type ReleaseFails struct {
	Surge5d  bool `json:"5d_60%"`
	Surge15d bool `json:"15d_100%"`
	Highest  bool `json:"highest"`
}

// Any reports whether any condition blocks the release.
func (f ReleaseFails) Any() bool {
	return f.Surge5d || f.Surge15d || f.Highest
}

// Names lists the blocking conditions.
func (f ReleaseFails) Names() []string {
	var out []string
	if f.Surge5d {
		out = append(out, "5d_60%")
	}
	if f.Surge15d {
		out = append(out, "15d_100%")
	}
	if f.Highest {
		out = append(out, "highest")
	}
	return out
}

// ReleaseDetermination is the release check for one scanned day.
type ReleaseDetermination struct {
	Date           time.Time    `json:"date"`
	Close          float64      `json:"close"`
	ReleaseCeiling float64      `json:"release_ceiling"`
	Thresh5d       float64      `json:"thresh_5d"`
	Thresh15d      float64      `json:"thresh_15d"`
	Prev14Max      float64      `json:"prev_14_max"`
	Fails          ReleaseFails `json:"fails"`
	// InsufficientHistory is set when fewer than 15 bars precede the day;
	// such a day never clears.
	InsufficientHistory bool `json:"insufficient_history,omitempty"`
}

// Clears reports whether the day qualifies for release.
func (d ReleaseDetermination) Clears() bool {
	return !d.InsufficientHistory && !d.Fails.Any()
}

// ReleaseSchedule is the result of scanning forward from a designation.
type ReleaseSchedule struct {
	Status          ReleaseStatus          `json:"status"`
	DesignationDate *time.Time             `json:"designation_date,omitempty"`
	ReleasedDate    *time.Time             `json:"released_date"`
	History         []ReleaseDetermination `json:"determination_history"`
	NextThresholds  *ReleaseDetermination  `json:"next_thresholds"`
	Message         string                 `json:"message,omitempty"`
	Error           string                 `json:"error,omitempty"`
}
