package financial

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/shopspring/decimal"
)

type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
)

var (
	monthToken   = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
	quarterToken = regexp.MustCompile(`^(\d{4})-[Qq]([1-4])$`)
)

// PeriodSelector is a parsed "YYYY-MM" or "YYYY-Qn" token. An empty
// selector matches every period.
type PeriodSelector struct {
	Token  string
	Type   PeriodType
	Months []string
}

func (s PeriodSelector) IsZero() bool { return s.Token == "" }

// ParsePeriodSelector parses token; want may force month or quarter, or be empty.
func ParsePeriodSelector(token string, want PeriodType) (PeriodSelector, error) {
	if token == "" {
		return PeriodSelector{}, nil
	}
	invalid := apperr.Invalid("period", apperr.CodeInvalidPeriod)

	if m := monthToken.FindStringSubmatch(token); m != nil {
		if want == PeriodQuarter {
			return PeriodSelector{}, invalid
		}
		return PeriodSelector{Token: token, Type: PeriodMonth, Months: []string{token}}, nil
	}
	if m := quarterToken.FindStringSubmatch(token); m != nil {
		if want == PeriodMonth {
			return PeriodSelector{}, invalid
		}
		q, _ := strconv.Atoi(m[2])
		months := make([]string, 0, 3)
		for i := 1; i <= 3; i++ {
			months = append(months, fmt.Sprintf("%s-%02d", m[1], (q-1)*3+i))
		}
		return PeriodSelector{Token: m[1] + "-Q" + m[2], Type: PeriodQuarter, Months: months}, nil
	}
	return PeriodSelector{}, invalid
}

// Matches reports whether a "YYYY-MM" period falls inside the selector.
func (s PeriodSelector) Matches(period string) bool {
	if s.IsZero() {
		return true
	}
	return slices.Contains(s.Months, period)
}

// ParsePeriodType: boş değer tokendan çıkarılır.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case "":
		return "", nil
	case PeriodMonth, PeriodQuarter:
		return PeriodType(s), nil
	}
	return "", apperr.Invalid("period_type", apperr.CodeInvalidPeriod)
}

type VATQuery struct {
	Period   PeriodSelector
	ViewMode ledger.ViewMode
}

type VATRow struct {
	Period    string          `json:"period"`
	OutputVAT decimal.Decimal `json:"output_vat"`
	InputVAT  decimal.Decimal `json:"input_vat"`
	NetVAT    decimal.Decimal `json:"net_vat"`
}

type vatSums struct {
	output, input decimal.Decimal
}

func (s vatSums) row(period string) VATRow {
	return VATRow{
		Period:    period,
		OutputVAT: money.Round2(s.output),
		InputVAT:  money.Round2(s.input),
		NetVAT:    money.Round2(s.output.Sub(s.input)),
	}
}

// VATReport pools a month or quarter into one row. With no selector it
// returns one row per month. No matching facts yields an empty slice.
func VATReport(facts []models.ProfitAndLossFact, q VATQuery) []VATRow {
	sums := map[string]*vatSums{}
	for _, f := range FilterByViewMode(facts, q.ViewMode) {
		if !q.Period.Matches(f.Period) {
			continue
		}
		key := f.Period
		if !q.Period.IsZero() {
			key = q.Period.Token
		}
		s, ok := sums[key]
		if !ok {
			s = &vatSums{}
			sums[key] = s
		}
		s.output = s.output.Add(money.OrZero(f.OutputVAT))
		s.input = s.input.Add(money.OrZero(f.InputVAT))
	}

	rows := make([]VATRow, 0, len(sums))
	for period, s := range sums {
		rows = append(rows, s.row(period))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows
}

// FilterByViewMode keeps facts visible in mode; total keeps everything.
func FilterByViewMode(facts []models.ProfitAndLossFact, mode ledger.ViewMode) []models.ProfitAndLossFact {
	if mode == "" || mode == ledger.ViewTotal {
		return facts
	}
	out := make([]models.ProfitAndLossFact, 0, len(facts))
	for _, f := range facts {
		if mode.Includes(f.IsOfficial) {
			out = append(out, f)
		}
	}
	return out
}
