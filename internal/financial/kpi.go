package financial

import (
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"
	"guvenlik-backend/internal/subscription"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type KPIs struct {
	MRR                   decimal.Decimal     `json:"mrr"`
	ARPC                  decimal.Decimal     `json:"arpc"`
	GrossMarginPct        decimal.NullDecimal `json:"gross_margin_pct"`
	NetProfit             decimal.Decimal     `json:"net_profit"`
	VATPayable            decimal.Decimal     `json:"vat_payable"`
	MaterialCostPct       decimal.NullDecimal `json:"material_cost_pct"`
	SIMNetProfit          decimal.Decimal     `json:"sim_net_profit"`
	SubscriptionNetProfit decimal.Decimal     `json:"subscription_net_profit"`

	Revenue   decimal.Decimal `json:"revenue"`
	COGS      decimal.Decimal `json:"cogs"`
	Expenses  decimal.Decimal `json:"expenses"`
	OutputVAT decimal.Decimal `json:"output_vat"`
	InputVAT  decimal.Decimal `json:"input_vat"`
}

// ComputeKPIs combines subscription stats with the period's facts. Margins are
// null, not zero, when there is no revenue.
func ComputeKPIs(stats subscription.Stats, facts []models.ProfitAndLossFact) KPIs {
	var pl plSums
	var output, input, sim, sub decimal.Decimal

	for _, f := range facts {
		pl.add(f)
		output = output.Add(money.OrZero(f.OutputVAT))
		input = input.Add(money.OrZero(f.InputVAT))

		switch f.SourceType {
		case models.IncomeTypeSIMRental:
			sim = sim.Add(f.AmountTRY)
		case models.CategoryCodeSIMOperator:
			sim = sim.Sub(f.AmountTRY.Abs())
		case models.SourceSubscription:
			sub = sub.Add(f.AmountTRY)
		case models.SourceSubscriptionCOGS:
			sub = sub.Sub(f.AmountTRY.Abs())
		}
	}

	k := KPIs{
		MRR:                   money.Round2(stats.MRR),
		ARPC:                  decimal.Zero,
		NetProfit:             money.Round2(pl.revenue.Sub(pl.expenses)),
		VATPayable:            money.Round2(output.Sub(input)),
		SIMNetProfit:          money.Round2(sim),
		SubscriptionNetProfit: money.Round2(sub),

		Revenue:   money.Round2(pl.revenue),
		COGS:      money.Round2(pl.cogs),
		Expenses:  money.Round2(pl.expenses),
		OutputVAT: money.Round2(output),
		InputVAT:  money.Round2(input),
	}
	if stats.DistinctCustomerCount > 0 {
		k.ARPC = money.Round2(stats.MRR.Div(decimal.NewFromInt(stats.DistinctCustomerCount)))
	}
	if pl.revenue.IsPositive() {
		k.GrossMarginPct = money.Null(money.Round2(pl.revenue.Sub(pl.cogs).Div(pl.revenue).Mul(hundred)))
		k.MaterialCostPct = money.Null(money.Round2(pl.cogs.Div(pl.revenue).Mul(hundred)))
	}
	return k
}
