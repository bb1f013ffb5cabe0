package charges

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateSingleLine(t *testing.T) {
	t.Parallel()

	res := Estimate([]LineItem{
		{SKU: "SKU-1", Name: "Basmati Rice 5kg", Qty: 10, Price: 450},
	})

	require.Len(t, res.Lines, 1)
	require.Equal(t, 4500.0, res.Lines[0].Gross)
	require.Equal(t, 0.0, res.Lines[0].DiscountAmount)
	require.Equal(t, 4500.0, res.Lines[0].Taxable)
	require.Equal(t, 4500.0, res.SubTotal)
}

func TestEstimateLineDiscount(t *testing.T) {
	t.Parallel()

	res := Estimate([]LineItem{
		{Qty: 2, Price: 999.99, ItemDiscountPct: 15},
	})

	line := res.Lines[0]
	require.Equal(t, 1999.98, line.Gross)
	require.Equal(t, 300.0, line.DiscountAmount) // Round2(1999.98 * 0.15) = Round2(299.997)
	require.Equal(t, 1699.98, line.Taxable)
	require.Equal(t, 1699.98, res.SubTotal)
}

func TestEstimateSubTotalRoundsAfterEveryLine(t *testing.T) {
	t.Parallel()

	// each line taxable is exact at 2 decimals, so incremental and
	// one-shot rounding agree; the invariant is that the running sum is
	// itself always a 2-decimal value
	items := make([]LineItem, 50)
	for i := range items {
		items[i] = LineItem{Qty: 1, Price: 10.01}
	}

	res := Estimate(items)
	require.Equal(t, 500.5, res.SubTotal)
	for _, line := range res.Lines {
		require.Equal(t, 10.01, line.Taxable)
	}
}

func TestEstimateSanitizesInput(t *testing.T) {
	t.Parallel()

	res := Estimate([]LineItem{
		{Qty: -5, Price: 100},
		{Qty: 3, Price: math.NaN()},
		{Qty: 2, Price: 50, ItemDiscountPct: 150}, // clamped to 100%
	})

	require.Equal(t, 0.0, res.Lines[0].Gross)
	require.Equal(t, 0.0, res.Lines[1].Gross)
	require.Equal(t, 100.0, res.Lines[2].Gross)
	require.Equal(t, 100.0, res.Lines[2].DiscountAmount)
	require.Equal(t, 0.0, res.Lines[2].Taxable)
	require.Equal(t, 0.0, res.SubTotal)
}

func TestEstimatePreservesIdentityFields(t *testing.T) {
	t.Parallel()

	res := Estimate([]LineItem{
		{SKU: "A-1", Name: "Atta 10kg", Unit: "bag", ImageURL: "https://cdn.example.com/a1.png", Qty: 1.5, Price: 380},
	})

	line := res.Lines[0]
	require.Equal(t, "A-1", line.SKU)
	require.Equal(t, "Atta 10kg", line.Name)
	require.Equal(t, "bag", line.Unit)
	require.Equal(t, "https://cdn.example.com/a1.png", line.ImageURL)
	require.Equal(t, 1.5, line.Qty)
	require.Equal(t, 570.0, line.Taxable)
}

func TestEstimateEmpty(t *testing.T) {
	t.Parallel()

	res := Estimate(nil)
	require.Empty(t, res.Lines)
	require.Zero(t, res.SubTotal)
}
