package financial

import (
	"sort"

	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind int

const (
	KindRevenue EntryKind = iota
	KindExpense
)

// Entry is a fact with its direction made explicit. Amount is always a
// magnitude; COGS is only meaningful for revenue.
type Entry struct {
	Kind   EntryKind
	Amount decimal.Decimal
	COGS   decimal.Decimal
}

// Classify: amount_try > 0 gelir, <= 0 gider.
func Classify(f models.ProfitAndLossFact) Entry {
	if f.AmountTRY.IsPositive() {
		return Entry{Kind: KindRevenue, Amount: f.AmountTRY, COGS: money.OrZero(f.COGSTRY)}
	}
	return Entry{Kind: KindExpense, Amount: f.AmountTRY.Abs()}
}

type PLTotals struct {
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}

type PeriodPL struct {
	Period string `json:"period"`
	PLTotals
}

type plSums struct {
	revenue, cogs, expenses decimal.Decimal
}

func (s *plSums) add(f models.ProfitAndLossFact) {
	e := Classify(f)
	switch e.Kind {
	case KindRevenue:
		s.revenue = s.revenue.Add(e.Amount)
		s.cogs = s.cogs.Add(e.COGS)
	case KindExpense:
		s.expenses = s.expenses.Add(e.Amount)
	}
}

// totals rounds once, on the unrounded sums.
func (s plSums) totals() PLTotals {
	gross := s.revenue.Sub(s.cogs)
	return PLTotals{
		Revenue:     money.Round2(s.revenue),
		COGS:        money.Round2(s.cogs),
		GrossProfit: money.Round2(gross),
		Expenses:    money.Round2(s.expenses),
		NetProfit:   money.Round2(gross.Sub(s.expenses)),
	}
}

// AggregatePL reduces facts to revenue / cogs / gross / expenses / net.
func AggregatePL(facts []models.ProfitAndLossFact) PLTotals {
	var s plSums
	for _, f := range facts {
		s.add(f)
	}
	return s.totals()
}

// AggregateByPeriod returns one row per period present in facts, ascending.
func AggregateByPeriod(facts []models.ProfitAndLossFact) []PeriodPL {
	sums := map[string]*plSums{}
	for _, f := range facts {
		s, ok := sums[f.Period]
		if !ok {
			s = &plSums{}
			sums[f.Period] = s
		}
		s.add(f)
	}

	out := make([]PeriodPL, 0, len(sums))
	for period, s := range sums {
		out = append(out, PeriodPL{Period: period, PLTotals: s.totals()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// FillPeriods returns a row for every period in order, zero where absent.
func FillPeriods(rows []PeriodPL, periods []string) []PeriodPL {
	byPeriod := make(map[string]PeriodPL, len(rows))
	for _, r := range rows {
		byPeriod[r.Period] = r
	}
	out := make([]PeriodPL, 0, len(periods))
	for _, p := range periods {
		r, ok := byPeriod[p]
		if !ok {
			r = PeriodPL{Period: p, PLTotals: plSums{}.totals()}
		}
		out = append(out, r)
	}
	return out
}

// UncategorizedLabel is the display name of the sentinel bucket.
const UncategorizedLabel = "uncategorized"

type CategoryGroup struct {
	CategoryID   *uuid.UUID                    `json:"category_id"`
	CategoryName string                        `json:"category_name"`
	Total        decimal.Decimal               `json:"total"`
	Count        int                           `json:"count"`
	Items        []models.FinancialTransaction `json:"items"`
}

// CategoryName falls back name_tr -> name_en -> code -> uncategorized.
func CategoryName(c *models.ExpenseCategory) string {
	if c == nil {
		return UncategorizedLabel
	}
	for _, name := range []string{c.NameTR, c.NameEN, c.Code} {
		if name != "" {
			return name
		}
	}
	return UncategorizedLabel
}

// GroupByCategory groups transactions by expense_category_id; rows without a
// category share one bucket. Sorted by total descending.
func GroupByCategory(txs []models.FinancialTransaction) []CategoryGroup {
	type bucket struct {
		group CategoryGroup
		sum   decimal.Decimal
	}
	var none uuid.UUID
	buckets := map[uuid.UUID]*bucket{}
	order := []uuid.UUID{}

	for _, tx := range txs {
		key := none
		if tx.ExpenseCategoryID != nil {
			key = *tx.ExpenseCategoryID
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{group: CategoryGroup{CategoryName: UncategorizedLabel}}
			if tx.ExpenseCategoryID != nil {
				id := *tx.ExpenseCategoryID
				b.group.CategoryID = &id
				b.group.CategoryName = CategoryName(tx.ExpenseCategory)
			}
			buckets[key] = b
			order = append(order, key)
		}
		if b.group.CategoryID != nil && b.group.CategoryName == UncategorizedLabel && tx.ExpenseCategory != nil {
			b.group.CategoryName = CategoryName(tx.ExpenseCategory)
		}
		b.sum = b.sum.Add(tx.AmountTRY)
		b.group.Count++
		b.group.Items = append(b.group.Items, tx)
	}

	out := make([]CategoryGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		b.group.Total = money.Round2(b.sum)
		out = append(out, b.group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}
