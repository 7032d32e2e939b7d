package calc

import (
	"github.com/shopspring/decimal"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

// Input is everything the calculation depends on. Zero values stand in
// for undefined numeric fields; the calculator never fails.
type Input struct {
	CollectedBy     domain.CollectedBy
	Domain          string
	MSN             bool
	TotalOrderValue decimal.Decimal
	BuyerFinderFee  decimal.Decimal
	ItemTax         decimal.Decimal
	TcsRate         decimal.Decimal // percent
	TdsRate         decimal.Decimal // percent
}

type Breakdown struct {
	Tcs                 decimal.Decimal
	Tds                 decimal.Decimal
	InterNpSettlement   decimal.Decimal
	CollectorSettlement decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Compute derives the settlement breakdown for one order. It is pure
// and deterministic: both counterparties must independently arrive at
// the same figures. All outputs are rounded to 2 decimals, half away
// from zero.
func Compute(in Input) Breakdown {
	bapCollects := in.CollectedBy != domain.CollectedByBPP
	retailFnB := in.Domain == domain.DomainRetailFnB

	taxBase := in.TotalOrderValue.Sub(in.ItemTax)

	tcs := decimal.Zero
	if bapCollects && !in.MSN && !retailFnB {
		tcs = taxBase.Mul(in.TcsRate).Div(hundred)
	}

	tds := decimal.Zero
	if bapCollects && !in.MSN {
		tds = taxBase.Mul(in.TdsRate).Div(hundred)
	}

	// In the retail F&B domain the item tax itself changes hands when
	// the provider is not an MSN.
	shiftItemTax := retailFnB && !in.MSN

	var interNp, collector decimal.Decimal
	if bapCollects {
		interNp = in.TotalOrderValue.Sub(in.BuyerFinderFee).Sub(tcs).Sub(tds)
		if shiftItemTax {
			interNp = interNp.Sub(in.ItemTax)
		}
		collector = in.BuyerFinderFee.Add(tcs).Add(tds)
	} else {
		interNp = in.BuyerFinderFee.Add(tcs).Add(tds)
		if shiftItemTax {
			interNp = interNp.Add(in.ItemTax)
		}
		collector = in.TotalOrderValue.Sub(interNp)
	}

	return Breakdown{
		Tcs:                 tcs.Round(2),
		Tds:                 tds.Round(2),
		InterNpSettlement:   interNp.Round(2),
		CollectorSettlement: collector.Round(2),
	}
}
