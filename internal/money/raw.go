package money

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RawDecimal keeps the untouched text of a numeric form field so that a
// malformed value can be reported against its own field instead of failing
// the whole request body. Both JSON numbers and strings are accepted.
type RawDecimal struct {
	Text string
	Set  bool
}

func (r *RawDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = RawDecimal{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RawDecimal{Text: s, Set: s != ""}
		return nil
	}
	*r = RawDecimal{Text: string(b), Set: true}
	return nil
}

func (r RawDecimal) MarshalJSON() ([]byte, error) {
	if !r.Set {
		return []byte("null"), nil
	}
	return json.Marshal(r.Text)
}

// Raw builds a RawDecimal from text, mostly for callers building input in code.
func Raw(text string) RawDecimal {
	return RawDecimal{Text: text, Set: text != ""}
}

// RawFrom builds a RawDecimal from an already parsed decimal.
func RawFrom(d decimal.Decimal) RawDecimal {
	return RawDecimal{Text: d.String(), Set: true}
}

// Parse returns (value, present, error).
func (r RawDecimal) Parse() (decimal.Decimal, bool, error) {
	if !r.Set {
		return decimal.Zero, false, nil
	}
	d, err := ParseDecimal(r.Text)
	if err != nil {
		return decimal.Zero, true, err
	}
	return d, true, nil
}
