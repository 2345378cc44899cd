package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
)

// numberWords maps spelled-out counts to digits. Ambiguous articles
// ("a while") are deliberately absent so they never match.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "twenty": 20, "thirty": 30,
}

const numberWordAlternation = `one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|twenty|thirty`

var durationPattern = regexp.MustCompile(
	`\b(\d+|` + numberWordAlternation + `)\s+(days?|weeks?|months?|years?)\b`)

// DurationScanner lazily yields normalized duration expressions from a
// single forward pass over transcript text. It is not restartable;
// create a new scanner to rescan.
type DurationScanner struct {
	text string
	pos  int
	cur  entities.DurationExpression
}

// NewDurationScanner returns a scanner positioned before the first match.
func NewDurationScanner(text string) *DurationScanner {
	return &DurationScanner{text: strings.ToLower(text)}
}

// Scan advances to the next duration expression, returning false when the
// text is exhausted. Malformed matches are skipped, never reported.
func (s *DurationScanner) Scan() bool {
	for s.pos < len(s.text) {
		loc := durationPattern.FindStringSubmatchIndex(s.text[s.pos:])
		if loc == nil {
			s.pos = len(s.text)
			return false
		}

		raw := s.text[s.pos+loc[0] : s.pos+loc[1]]
		number := s.text[s.pos+loc[2] : s.pos+loc[3]]
		unit := s.text[s.pos+loc[4] : s.pos+loc[5]]
		s.pos += loc[1]

		value, ok := parseCount(number)
		if !ok {
			continue
		}

		s.cur = entities.DurationExpression{
			RawText: raw,
			Value:   value,
			Unit:    entities.DurationUnit(strings.TrimSuffix(unit, "s")),
		}
		return true
	}
	return false
}

// Expression returns the expression found by the last successful Scan.
func (s *DurationScanner) Expression() entities.DurationExpression {
	return s.cur
}

// Durations drains a fresh scanner over the text and collects every
// expression, in order of appearance.
func Durations(text string) []entities.DurationExpression {
	var out []entities.DurationExpression
	scanner := NewDurationScanner(text)
	for scanner.Scan() {
		out = append(out, scanner.Expression())
	}
	return out
}

func parseCount(token string) (int, bool) {
	token = strings.ToLower(token)
	if v, ok := numberWords[token]; ok {
		return v, true
	}
	v, err := strconv.Atoi(token)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
