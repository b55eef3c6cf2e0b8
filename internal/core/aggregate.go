package core

import "math"

// Financial aggregation over raw ledger rows. Every function here is a pure
// single-pass reduction: an empty collection yields the additive identity and
// a zero denominator yields 0, never an error. Dashboard read paths degrade
// to neutral values instead of failing.

// FeedCost sums quantityKg * pricePerKg over all feed purchases.
func FeedCost(rows []FeedPurchase) Money {
	var total Money
	for _, f := range rows {
		total = total.Add(mulQuantity(f.PricePerKg, f.QuantityKg))
	}
	return total
}

// TotalFeedQuantity sums the purchased feed in kilograms.
func TotalFeedQuantity(rows []FeedPurchase) float64 {
	var kg float64
	for _, f := range rows {
		kg += f.QuantityKg
	}
	return kg
}

// AverageFeedPricePerKg is the quantity-weighted mean feed price.
func AverageFeedPricePerKg(rows []FeedPurchase) Money {
	kg := TotalFeedQuantity(rows)
	if kg <= 0 {
		return Money{}
	}
	cost := FeedCost(rows)
	return Money{Cents: int64(math.Round(float64(cost.Cents) / kg))}
}

// TotalCost is the batch cost basis: chick investment plus feed plus expenses.
func TotalCost(b Batch, feed []FeedPurchase, expenses Money) Money {
	chicks := b.ChickPrice.MulInt(b.InitialChicks)
	return chicks.Add(FeedCost(feed)).Add(expenses)
}

// SurvivingBirds is initial chicks minus cumulative recorded deaths,
// clamped at zero when the ledger is inconsistent.
func SurvivingBirds(b Batch, mortalitySum int) int {
	n := b.InitialChicks - mortalitySum
	if n < 0 {
		return 0
	}
	return n
}

// Profit is revenue minus total cost; negative values are meaningful.
func Profit(revenue, totalCost Money) Money {
	return revenue.Sub(totalCost)
}

// ExpectedRevenue forecasts revenue from the surviving headcount at the
// expected per-bird price. Never written back to the ledger.
func ExpectedRevenue(survivingBirds int, expectedPricePerBird Money) Money {
	return expectedPricePerBird.MulInt(survivingBirds)
}

// RevenueVariance is actual minus expected revenue, signed.
func RevenueVariance(actual, expected Money) Money {
	return actual.Sub(expected)
}

// CostVariance is actual minus expected cost, signed.
func CostVariance(actual, expected Money) Money {
	return actual.Sub(expected)
}

// MortalityRate is cumulative deaths as a percentage of initial chicks.
func MortalityRate(mortalitySum, initialChicks int) float64 {
	if initialChicks <= 0 {
		return 0
	}
	return 100 * float64(mortalitySum) / float64(initialChicks)
}

// ROI is profit as a percentage of total cost.
func ROI(profit, totalCost Money) float64 {
	if totalCost.Cents <= 0 {
		return 0
	}
	return 100 * float64(profit.Cents) / float64(totalCost.Cents)
}

// BreakEvenPricePerBird is the cost basis spread over the initial headcount.
func BreakEvenPricePerBird(totalCost Money, initialChicks int) Money {
	if initialChicks <= 0 {
		return Money{}
	}
	return Money{Cents: int64(math.Round(float64(totalCost.Cents) / float64(initialChicks)))}
}

// SumSales adds up sale totals.
func SumSales(rows []Sale) Money {
	var total Money
	for _, s := range rows {
		total = total.Add(s.Total)
	}
	return total
}

// SumExpenses adds up expense amounts.
func SumExpenses(rows []Expense) Money {
	var total Money
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	return total
}

// BirdsSold counts birds sold through per-bird sales.
func BirdsSold(rows []Sale) float64 {
	var n float64
	for _, s := range rows {
		if s.Type == SalePerBird {
			n += s.Quantity
		}
	}
	return n
}

// WeightSold sums kilograms sold through per-kg sales.
func WeightSold(rows []Sale) float64 {
	var kg float64
	for _, s := range rows {
		if s.Type == SalePerKg {
			kg += s.Quantity
		}
	}
	return kg
}

// AverageSalePrice is the mean unit price across sales of the given type.
func AverageSalePrice(rows []Sale, t SaleType) Money {
	var sum int64
	var n int64
	for _, s := range rows {
		if s.Type == t {
			sum += s.Price.Cents
			n++
		}
	}
	if n == 0 {
		return Money{}
	}
	return Money{Cents: int64(math.Round(float64(sum) / float64(n)))}
}

// TotalIncome sums income transactions in one currency. Currencies are
// never mixed in a single aggregate.
func TotalIncome(rows []Transaction, c Currency) Money {
	return sumTransactions(rows, TxIncome, c)
}

// TotalExpenseAmount sums expense transactions in one currency.
func TotalExpenseAmount(rows []Transaction, c Currency) Money {
	return sumTransactions(rows, TxExpense, c)
}

// Balance is income minus expenses for one currency.
func Balance(rows []Transaction, c Currency) Money {
	return TotalIncome(rows, c).Sub(TotalExpenseAmount(rows, c))
}

func sumTransactions(rows []Transaction, t TransactionType, c Currency) Money {
	var total Money
	for _, tx := range rows {
		if tx.Type == t && tx.Currency == c {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
