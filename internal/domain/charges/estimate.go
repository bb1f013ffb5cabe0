package charges

// LineItem is one raw order line as requested by a retailer. The
// identity fields pass through the estimate untouched.
type LineItem struct {
	SKU             string  `json:"sku,omitempty"`
	Name            string  `json:"name,omitempty"`
	Unit            string  `json:"unit,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	Qty             float64 `json:"qty"`
	Price           float64 `json:"price"`
	ItemDiscountPct float64 `json:"item_discount_pct"`
}

// EstimatedLine is a line item with its pre-tax amounts resolved.
type EstimatedLine struct {
	LineItem
	Gross          float64 `json:"gross"`
	DiscountAmount float64 `json:"discount_amount"`
	Taxable        float64 `json:"taxable"`
}

// EstimateResult is the pre-tax order estimate computed at
// order-request time. SubTotal later feeds Compute.
type EstimateResult struct {
	Lines    []EstimatedLine `json:"lines"`
	SubTotal float64         `json:"sub_total"`
}

// Estimate computes the pre-tax amounts for every order line and the
// running subtotal. The subtotal is re-rounded after every line rather
// than once at the end; this incremental order of operations is what
// the persisted orders were computed with and must not be changed, or
// previews and historical totals drift apart on long orders.
func Estimate(items []LineItem) EstimateResult {
	res := EstimateResult{Lines: make([]EstimatedLine, 0, len(items))}
	for _, item := range items {
		qty := Round2(Amount(item.Qty))
		price := Round2(Amount(item.Price))
		gross := Round2(qty * price)
		discount := Round2(gross * ClampPct(item.ItemDiscountPct) / 100)
		taxable := Round2(gross - discount)

		line := EstimatedLine{
			LineItem:       item,
			Gross:          gross,
			DiscountAmount: discount,
			Taxable:        taxable,
		}
		line.Qty = qty
		line.Price = price
		res.Lines = append(res.Lines, line)

		res.SubTotal = Round2(res.SubTotal + taxable)
	}
	return res
}
