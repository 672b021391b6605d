// Package exposition parses single lines of the Prometheus text format
// into samples.
//
// Only the subset needed to pull out the name, labels, value and
// timestamp of a line is supported:
//
//	metric_name [ "{" label_name "=" `"` label_value `"` { "," label_name "=" `"` label_value `"` } "}" ] value [ timestamp ]
//
// See https://prometheus.io/docs/instrumenting/exposition_formats/#text-format-details.
// Label values end at the first quote; escapes are not interpreted.
package exposition

import (
	"errors"
	"strconv"
	"strings"
)

// ParseLine parses one non-comment line. The whole line must match the
// grammar; anything left over makes the parse fail. A failed parse is
// reported by ok == false and is an ordinary outcome for blank lines,
// HELP/TYPE metadata and rows the grammar does not cover.
func ParseLine(line string) (s Sample, ok bool) {
	p := lineParser{s: line}

	name, ok := p.identifier()
	if !ok {
		return Sample{}, false
	}
	s.Name = name

	if p.peek() == '{' {
		labels, ok := p.labels()
		if !ok {
			return Sample{}, false
		}
		s.Labels = labels
	}

	if !p.space() {
		return Sample{}, false
	}
	v, ok := p.float()
	if !ok {
		return Sample{}, false
	}
	s.Value = v

	if p.done() {
		return s, true
	}
	if !p.space() {
		return Sample{}, false
	}
	ts, ok := p.integer()
	if !ok || !p.done() {
		return Sample{}, false
	}
	s.Timestamp, s.HasTimestamp = ts, true
	return s, true
}

// lineParser is a cursor over a single line.
type lineParser struct {
	s   string
	pos int
}

func (p *lineParser) done() bool { return p.pos == len(p.s) }

func (p *lineParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *lineParser) consume(c byte) bool {
	if p.done() || p.s[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

// takeWhile advances past the longest run of bytes satisfying f and
// returns it.
func (p *lineParser) takeWhile(f func(byte) bool) string {
	start := p.pos
	for !p.done() && f(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func isIDChar(c byte) bool {
	return c == '_' || isDigit(c) || isLetter(c)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func (p *lineParser) identifier() (string, bool) {
	id := p.takeWhile(isIDChar)
	return id, id != ""
}

func (p *lineParser) space() bool {
	return p.takeWhile(isSpace) != ""
}

// labels parses a brace-delimited label block. A trailing comma is not
// allowed.
func (p *lineParser) labels() ([]Label, bool) {
	if !p.consume('{') {
		return nil, false
	}
	labels := []Label{}
	if p.consume('}') {
		return labels, true
	}
	for {
		l, ok := p.label()
		if !ok {
			return nil, false
		}
		labels = append(labels, l)
		if p.consume('}') {
			return labels, true
		}
		if !p.consume(',') {
			return nil, false
		}
	}
}

func (p *lineParser) label() (Label, bool) {
	key, ok := p.identifier()
	if !ok || !p.consume('=') || !p.consume('"') {
		return Label{}, false
	}
	end := strings.IndexByte(p.s[p.pos:], '"')
	if end < 0 {
		return Label{}, false
	}
	value := p.s[p.pos : p.pos+end]
	p.pos += end + 1
	return Label{Key: key, Value: value}, true
}

// float recognises a decimal float, optionally signed and with an
// exponent, or one of the spellings inf, infinity (signed or not) and
// nan, in any case.
func (p *lineParser) float() (float64, bool) {
	start := p.pos
	signed := p.consume('+') || p.consume('-')

	if isLetter(p.peek()) {
		word := p.takeWhile(isLetter)
		switch {
		case strings.EqualFold(word, "inf"), strings.EqualFold(word, "infinity"):
		case strings.EqualFold(word, "nan") && !signed:
		default:
			return 0, false
		}
		return parseFloat(p.s[start:p.pos])
	}

	intPart := p.takeWhile(isDigit)
	if p.consume('.') {
		frac := p.takeWhile(isDigit)
		if intPart == "" && frac == "" {
			return 0, false
		}
	} else if intPart == "" {
		return 0, false
	}
	if p.consume('e') || p.consume('E') {
		_ = p.consume('+') || p.consume('-')
		if p.takeWhile(isDigit) == "" {
			return 0, false
		}
	}
	return parseFloat(p.s[start:p.pos])
}

func (p *lineParser) integer() (uint64, bool) {
	digits := p.takeWhile(isDigit)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloat keeps strconv's ±Inf for out-of-range exponents.
func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}
