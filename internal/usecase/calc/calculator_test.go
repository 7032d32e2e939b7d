package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeBapCollects(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBAP,
		Domain:          "ONDC:RET10",
		TotalOrderValue: d("1000"),
		BuyerFinderFee:  d("50"),
		TcsRate:         d("5"),
		TdsRate:         d("6"),
	})

	assert.Equal(t, "50.00", out.Tcs.StringFixed(2))
	assert.Equal(t, "60.00", out.Tds.StringFixed(2))
	assert.Equal(t, "840.00", out.InterNpSettlement.StringFixed(2))
	assert.Equal(t, "160.00", out.CollectorSettlement.StringFixed(2))
}

func TestComputeBppCollects(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBPP,
		Domain:          "ONDC:RET10",
		TotalOrderValue: d("1000"),
		BuyerFinderFee:  d("50"),
		TcsRate:         d("5"),
		TdsRate:         d("6"),
	})

	// Taxes are withheld only on the BAP-collect side.
	assert.True(t, out.Tcs.IsZero())
	assert.True(t, out.Tds.IsZero())
	assert.Equal(t, "50.00", out.InterNpSettlement.StringFixed(2))
	assert.Equal(t, "950.00", out.CollectorSettlement.StringFixed(2))
}

func TestComputeMsnSuppressesTaxes(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBAP,
		Domain:          "ONDC:RET10",
		MSN:             true,
		TotalOrderValue: d("1000"),
		BuyerFinderFee:  d("50"),
		TcsRate:         d("5"),
		TdsRate:         d("6"),
	})

	assert.True(t, out.Tcs.IsZero())
	assert.True(t, out.Tds.IsZero())
	assert.Equal(t, "950.00", out.InterNpSettlement.StringFixed(2))
	assert.Equal(t, "50.00", out.CollectorSettlement.StringFixed(2))
}

func TestComputeRetailFnB(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBAP,
		Domain:          domain.DomainRetailFnB,
		TotalOrderValue: d("1000"),
		BuyerFinderFee:  d("50"),
		ItemTax:         d("100"),
		TcsRate:         d("5"),
		TdsRate:         d("6"),
	})

	// F&B: no TCS, TDS on the tax-stripped base, item tax changes hands.
	assert.True(t, out.Tcs.IsZero())
	assert.Equal(t, "54.00", out.Tds.StringFixed(2))
	assert.Equal(t, "796.00", out.InterNpSettlement.StringFixed(2))
	assert.Equal(t, "104.00", out.CollectorSettlement.StringFixed(2))
}

func TestComputeRetailFnBMsn(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBAP,
		Domain:          domain.DomainRetailFnB,
		MSN:             true,
		TotalOrderValue: d("1000"),
		BuyerFinderFee:  d("50"),
		ItemTax:         d("100"),
		TcsRate:         d("5"),
		TdsRate:         d("6"),
	})

	// An MSN provider keeps the item tax in the regular flow.
	assert.True(t, out.Tcs.IsZero())
	assert.True(t, out.Tds.IsZero())
	assert.Equal(t, "950.00", out.InterNpSettlement.StringFixed(2))
	assert.Equal(t, "50.00", out.CollectorSettlement.StringFixed(2))
}

func TestComputeZeroInputs(t *testing.T) {
	out := Compute(Input{CollectedBy: domain.CollectedByBAP})

	assert.True(t, out.Tcs.IsZero())
	assert.True(t, out.Tds.IsZero())
	assert.True(t, out.InterNpSettlement.IsZero())
	assert.True(t, out.CollectorSettlement.IsZero())
}

func TestComputeDeterministic(t *testing.T) {
	in := Input{
		CollectedBy:     domain.CollectedByBAP,
		Domain:          "ONDC:RET10",
		TotalOrderValue: d("1234.56"),
		BuyerFinderFee:  d("37.04"),
		ItemTax:         d("61.73"),
		TcsRate:         d("1"),
		TdsRate:         d("2.5"),
	}

	first := Compute(in)
	for i := 0; i < 10; i++ {
		again := Compute(in)
		require.True(t, first.Tcs.Equal(again.Tcs))
		require.True(t, first.Tds.Equal(again.Tds))
		require.True(t, first.InterNpSettlement.Equal(again.InterNpSettlement))
		require.True(t, first.CollectorSettlement.Equal(again.CollectorSettlement))
	}
}

// Outside the F&B domain the two outgoing legs always recompose the
// order value, from either side's perspective.
func TestComputeConservation(t *testing.T) {
	inputs := []Input{
		{CollectedBy: domain.CollectedByBAP, TotalOrderValue: d("999.99"), BuyerFinderFee: d("29.01"), TcsRate: d("5"), TdsRate: d("6")},
		{CollectedBy: domain.CollectedByBPP, TotalOrderValue: d("999.99"), BuyerFinderFee: d("29.01"), TcsRate: d("5"), TdsRate: d("6")},
		{CollectedBy: domain.CollectedByBAP, MSN: true, TotalOrderValue: d("123.45"), BuyerFinderFee: d("1.23")},
		{CollectedBy: domain.CollectedByBPP, TotalOrderValue: d("0.01"), BuyerFinderFee: d("0")},
	}
	for _, in := range inputs {
		out := Compute(in)
		total := out.InterNpSettlement.Add(out.CollectorSettlement)
		assert.Truef(t, total.Equal(in.TotalOrderValue.Round(2)),
			"interNp %s + collector %s != tov %s", out.InterNpSettlement, out.CollectorSettlement, in.TotalOrderValue)
	}
}

func TestComputeRoundsHalfAwayFromZero(t *testing.T) {
	out := Compute(Input{
		CollectedBy:     domain.CollectedByBAP,
		TotalOrderValue: d("100"),
		TcsRate:         d("0.125"), // 0.125 -> 0.13, not banker's 0.12
		TdsRate:         d("0.135"), // 0.135 -> 0.14
	})

	assert.Equal(t, "0.13", out.Tcs.StringFixed(2))
	assert.Equal(t, "0.14", out.Tds.StringFixed(2))
}
