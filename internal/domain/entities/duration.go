package entities

import "fmt"

// DurationUnit is the canonical singular time unit of a duration expression.
type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

// IsValid checks if the unit value is one of the defined constants.
func (u DurationUnit) IsValid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

// DurationExpression is a normalized timeframe phrase found in transcript
// text, e.g. "four weeks" → {Value: 4, Unit: week}.
type DurationExpression struct {
	RawText string       `json:"raw_text"`
	Value   int          `json:"value"`
	Unit    DurationUnit `json:"unit"`
}

// String renders the expression in its normalized plural-aware form.
func (d DurationExpression) String() string {
	if d.Value == 1 {
		return fmt.Sprintf("1 %s", d.Unit)
	}
	return fmt.Sprintf("%d %ss", d.Value, d.Unit)
}
