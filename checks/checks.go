// Package checks holds the assertions that can be made about a single
// metric value: "up" (value of at least 1) and "fresh" (value is a unix
// timestamp in seconds that is no older than the stale threshold).
package checks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"promcheck/exposition"
)

// Kind is the closed set of assertions a Check can make.
type Kind int

const (
	Up Kind = iota
	Fresh
)

func (k Kind) String() string {
	switch k {
	case Up:
		return "Up"
	case Fresh:
		return "Fresh"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "up" or "fresh" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "up":
		return Up, nil
	case "fresh":
		return Fresh, nil
	}
	return 0, fmt.Errorf("unknown check kind %q", s)
}

// Context is the per-run snapshot every check is evaluated against.
// Now is taken once when the run starts and never refreshed.
type Context struct {
	Now            float64 // unix time in seconds
	StaleThreshold float64 // seconds a Fresh value may lag behind Now
}

// NewContext captures now as fractional unix seconds.
func NewContext(now time.Time, staleThreshold float64) Context {
	return Context{
		Now:            float64(now.Unix()) + float64(now.Nanosecond())/float64(time.Second),
		StaleThreshold: staleThreshold,
	}
}

func (c Context) isFresh(value float64) bool {
	return value >= c.Now-c.StaleThreshold
}

// Evaluate reports whether value satisfies kind. NaN never satisfies
// anything.
func Evaluate(kind Kind, value float64, ctx Context) bool {
	switch kind {
	case Up:
		return value >= 1.0
	case Fresh:
		return ctx.isFresh(value)
	default:
		return false
	}
}

// Check asks for Kind to hold for every sample named Name.
type Check struct {
	Name string
	Kind Kind
}

func (c Check) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.Name)
}

// IsSatisfiedBy is false for a sample with a different name.
func (c Check) IsSatisfiedBy(s exposition.Sample, ctx Context) bool {
	return c.Name == s.Name && Evaluate(c.Kind, s.Value, ctx)
}

// Compare orders checks by name, then kind.
func Compare(a, b Check) int {
	if n := strings.Compare(a.Name, b.Name); n != 0 {
		return n
	}
	return cmp.Compare(a.Kind, b.Kind)
}

// SortChecks sorts list in place by Compare.
func SortChecks(list []Check) {
	slices.SortFunc(list, Compare)
}

// FromNames builds one check of kind per name, keeping the order.
func FromNames(kind Kind, names ...string) []Check {
	list := make([]Check, 0, len(names))
	for _, n := range names {
		list = append(list, Check{Name: n, Kind: kind})
	}
	return list
}
