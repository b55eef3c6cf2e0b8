package core

import "testing"

func cents(n int64) Money { return Money{Cents: n} }

func TestFeedCost(t *testing.T) {
	if got := FeedCost(nil); got.Cents != 0 {
		t.Fatalf("empty feed cost = %d, want 0", got.Cents)
	}

	rows := []FeedPurchase{
		{QuantityKg: 50, PricePerKg: cents(80)},   // 40.00
		{QuantityKg: 25, PricePerKg: cents(120)},  // 30.00
		{QuantityKg: 12.5, PricePerKg: cents(96)}, // 12.00
	}
	if got := FeedCost(rows); got.Cents != 8200 {
		t.Fatalf("feed cost = %d, want 8200", got.Cents)
	}
}

func TestFeedCostMonotonic(t *testing.T) {
	rows := []FeedPurchase{
		{QuantityKg: 10, PricePerKg: cents(100)},
		{QuantityKg: 0.5, PricePerKg: cents(75)},
		{QuantityKg: 33.3, PricePerKg: cents(210)},
	}
	prev := int64(0)
	for i := range rows {
		cur := FeedCost(rows[:i+1]).Cents
		if cur < prev {
			t.Fatalf("feed cost decreased after row %d: %d < %d", i, cur, prev)
		}
		prev = cur
	}
}

func TestTotalCost(t *testing.T) {
	b := Batch{InitialChicks: 100, ChickPrice: cents(150)}

	if got := TotalCost(b, nil, Money{}); got.Cents != 15000 {
		t.Fatalf("chicks-only total cost = %d, want 15000", got.Cents)
	}

	feed := []FeedPurchase{{QuantityKg: 60, PricePerKg: cents(100)}}
	if got := TotalCost(b, feed, cents(2000)); got.Cents != 23000 {
		t.Fatalf("total cost = %d, want 23000", got.Cents)
	}
}

func TestSurvivingBirds(t *testing.T) {
	b := Batch{InitialChicks: 100}
	cases := []struct {
		mortality int
		want      int
	}{
		{0, 100},
		{5, 95},
		{100, 0},
		{120, 0}, // inconsistent ledger clamps to zero
	}
	for _, tc := range cases {
		if got := SurvivingBirds(b, tc.mortality); got != tc.want {
			t.Errorf("SurvivingBirds(%d) = %d, want %d", tc.mortality, got, tc.want)
		}
	}
}

func TestMortalityRate(t *testing.T) {
	if got := MortalityRate(0, 500); got != 0 {
		t.Fatalf("zero deaths rate = %v, want 0", got)
	}
	if got := MortalityRate(5, 100); got != 5 {
		t.Fatalf("rate = %v, want 5", got)
	}
	if got := MortalityRate(7, 0); got != 0 {
		t.Fatalf("zero-chick guard = %v, want 0", got)
	}
}

func TestBatchEconomicsScenario(t *testing.T) {
	// 100 chicks at 1.50, feed 60.00, 5 dead, revenue 700.00, expenses 20.00.
	b := Batch{InitialChicks: 100, ChickPrice: cents(150), ExpectedPricePerBird: cents(800)}
	feed := []FeedPurchase{{QuantityKg: 60, PricePerKg: cents(100)}}

	totalCost := TotalCost(b, feed, cents(2000))
	if totalCost.Cents != 23000 {
		t.Fatalf("total cost = %d, want 23000", totalCost.Cents)
	}

	surviving := SurvivingBirds(b, 5)
	if surviving != 95 {
		t.Fatalf("surviving = %d, want 95", surviving)
	}

	revenue := cents(70000)
	if profit := Profit(revenue, totalCost); profit.Cents != 47000 {
		t.Fatalf("profit = %d, want 47000", profit.Cents)
	}

	expected := ExpectedRevenue(surviving, b.ExpectedPricePerBird)
	if expected.Cents != 76000 {
		t.Fatalf("expected revenue = %d, want 76000", expected.Cents)
	}

	if v := RevenueVariance(revenue, expected); v.Cents != -6000 {
		t.Fatalf("revenue variance = %d, want -6000", v.Cents)
	}
}

func TestProfitCanBeNegative(t *testing.T) {
	if p := Profit(cents(100), cents(250)); p.Cents != -150 {
		t.Fatalf("profit = %d, want -150", p.Cents)
	}
}

func TestROI(t *testing.T) {
	if got := ROI(cents(47000), cents(23000)); got < 204.3 || got > 204.4 {
		t.Fatalf("ROI = %v, want ~204.35", got)
	}
	if got := ROI(cents(100), Money{}); got != 0 {
		t.Fatalf("zero-cost ROI guard = %v, want 0", got)
	}
}

func TestBreakEvenPricePerBird(t *testing.T) {
	if got := BreakEvenPricePerBird(cents(23000), 100); got.Cents != 230 {
		t.Fatalf("break-even = %d, want 230", got.Cents)
	}
	if got := BreakEvenPricePerBird(cents(23000), 0); got.Cents != 0 {
		t.Fatalf("zero-chick guard = %d, want 0", got.Cents)
	}
}

func TestVariances(t *testing.T) {
	if got := RevenueVariance(cents(43000), cents(76000)); got.Cents != -33000 {
		t.Fatalf("revenue variance = %d, want -33000", got.Cents)
	}
	if got := CostVariance(cents(25000), cents(23000)); got.Cents != 2000 {
		t.Fatalf("cost variance = %d, want 2000", got.Cents)
	}
}

func TestAverageFeedPricePerKg(t *testing.T) {
	rows := []FeedPurchase{
		{QuantityKg: 50, PricePerKg: cents(80)},
		{QuantityKg: 50, PricePerKg: cents(120)},
	}
	if got := AverageFeedPricePerKg(rows); got.Cents != 100 {
		t.Fatalf("avg feed price = %d, want 100", got.Cents)
	}
	if got := AverageFeedPricePerKg(nil); got.Cents != 0 {
		t.Fatalf("empty avg feed price = %d, want 0", got.Cents)
	}
}

func TestSaleAggregates(t *testing.T) {
	rows := []Sale{
		{Type: SalePerBird, Quantity: 30, Price: cents(800), Total: cents(24000)},
		{Type: SalePerBird, Quantity: 20, Price: cents(700), Total: cents(14000)},
		{Type: SalePerKg, Quantity: 12.5, Price: cents(400), Total: cents(5000)},
	}

	if got := SumSales(rows); got.Cents != 43000 {
		t.Fatalf("sum sales = %d, want 43000", got.Cents)
	}
	if got := SumSales(nil); got.Cents != 0 {
		t.Fatalf("empty sum sales = %d, want 0", got.Cents)
	}
	if got := BirdsSold(rows); got != 50 {
		t.Fatalf("birds sold = %v, want 50", got)
	}
	if got := WeightSold(rows); got != 12.5 {
		t.Fatalf("weight sold = %v, want 12.5", got)
	}
	if got := AverageSalePrice(rows, SalePerBird); got.Cents != 750 {
		t.Fatalf("avg per-bird price = %d, want 750", got.Cents)
	}
	if got := AverageSalePrice(nil, SalePerKg); got.Cents != 0 {
		t.Fatalf("empty avg price = %d, want 0", got.Cents)
	}
}

func TestCurrencyAggregatesNeverMix(t *testing.T) {
	rows := []Transaction{
		{Type: TxIncome, Amount: cents(50000), Currency: USD},
		{Type: TxExpense, Amount: cents(12000), Currency: USD},
		{Type: TxIncome, Amount: cents(999999), Currency: ZWG},
		{Type: TxExpense, Amount: cents(111111), Currency: ZWG},
	}

	if got := TotalIncome(rows, USD); got.Cents != 50000 {
		t.Fatalf("USD income = %d, want 50000", got.Cents)
	}
	if got := TotalExpenseAmount(rows, USD); got.Cents != 12000 {
		t.Fatalf("USD expenses = %d, want 12000", got.Cents)
	}
	if got := Balance(rows, USD); got.Cents != 38000 {
		t.Fatalf("USD balance = %d, want 38000", got.Cents)
	}
	if got := Balance(rows, ZWG); got.Cents != 888888 {
		t.Fatalf("ZWG balance = %d, want 888888", got.Cents)
	}
	if got := Balance(nil, USD); got.Cents != 0 {
		t.Fatalf("empty balance = %d, want 0", got.Cents)
	}
}

func TestAggregatesAreIdempotent(t *testing.T) {
	rows := []FeedPurchase{
		{QuantityKg: 13.7, PricePerKg: cents(123)},
		{QuantityKg: 0.3, PricePerKg: cents(999)},
	}
	first := FeedCost(rows)
	for i := 0; i < 10; i++ {
		if got := FeedCost(rows); got != first {
			t.Fatalf("recomputation %d differs: %d != %d", i, got.Cents, first.Cents)
		}
	}
}
