// Package matcher runs a list of checks against a metrics body in a
// single pass.
package matcher

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"promcheck/checks"
	"promcheck/exposition"
)

var (
	// ErrUnsatisfied matches any *UnsatisfiedError via errors.Is.
	ErrUnsatisfied = errors.New("unsatisfied check")
	// ErrMissing matches any *MissingError via errors.Is.
	ErrMissing = errors.New("missing metrics")
)

// UnsatisfiedError is returned for the first sample that fails one of
// its checks.
type UnsatisfiedError struct {
	Name   string
	Value  float64
	Failed []checks.Check // in check-list order
}

func (e *UnsatisfiedError) Error() string {
	names := make([]string, len(e.Failed))
	for i, c := range e.Failed {
		names[i] = c.String()
	}
	return fmt.Sprintf("metric %s with value %s failed checks: [%s]",
		e.Name, strconv.FormatFloat(e.Value, 'g', -1, 64), strings.Join(names, " "))
}

func (e *UnsatisfiedError) Is(target error) bool { return target == ErrUnsatisfied }

// MissingError lists requested metrics that never showed up in the body.
type MissingError struct {
	Names []string // sorted
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("the following metrics were not found: [%s]", strings.Join(e.Names, " "))
}

func (e *MissingError) Is(target error) bool { return target == ErrMissing }

// Matcher is the match engine with a logger attached for per-line
// debugging.
type Matcher struct {
	Log *zap.Logger
}

// New returns a Matcher; a nil log is replaced with a no-op logger.
func New(log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{Log: log}
}

// Match is New(nil).Match.
func Match(ctx checks.Context, list []checks.Check, body string) error {
	return New(nil).Match(ctx, list, body)
}

// Match scans body top to bottom. Lines starting with '#' and lines that
// do not parse are skipped. Every parsed sample is evaluated against the
// checks sharing its name, and the first sample with a failing check
// ends the scan with an *UnsatisfiedError. After a clean scan, any
// requested name that never appeared yields a *MissingError.
func (m *Matcher) Match(ctx checks.Context, list []checks.Check, body string) error {
	confirmed := make(map[string]struct{})
	lineNo := 0

	for rest := body; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		lineNo++

		if strings.HasPrefix(line, "#") {
			continue
		}
		sample, ok := exposition.ParseLine(line)
		if !ok {
			m.Log.Debug("skipping unparsable line", zap.Int("line", lineNo))
			continue
		}

		var failed []checks.Check
		for _, c := range list {
			if c.Name != sample.Name {
				continue
			}
			confirmed[sample.Name] = struct{}{}
			if !c.IsSatisfiedBy(sample, ctx) {
				failed = append(failed, c)
			}
		}
		if len(failed) > 0 {
			return &UnsatisfiedError{Name: sample.Name, Value: sample.Value, Failed: failed}
		}
	}

	requested := make(map[string]struct{}, len(list))
	for _, c := range list {
		requested[c.Name] = struct{}{}
	}
	var missing []string
	for name := range requested {
		if _, ok := confirmed[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &MissingError{Names: missing}
	}
	m.Log.Debug("all checks satisfied",
		zap.Strings("metrics", slices.Sorted(maps.Keys(confirmed))), zap.Int("lines", lineNo))
	return nil
}
