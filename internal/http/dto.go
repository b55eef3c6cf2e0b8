package http

import (
	"time"

	"huku/internal/core"
	"huku/internal/services"
)

// Monetary amounts cross the wire as decimal strings ("12.50") and are
// parsed to cents at the boundary. Dates are YYYY-MM-DD.

type progressResponse struct {
	DaysPassed int  `json:"days_passed"`
	Week       int  `json:"week"`
	Percentage int  `json:"percentage"`
	Completed  bool `json:"completed"`
}

type batchResponse struct {
	ID                   int64            `json:"id"`
	Name                 string           `json:"name"`
	StartDate            string           `json:"start_date"`
	EndDate              string           `json:"end_date"`
	InitialChicks        int              `json:"initial_chicks"`
	ChickPrice           string           `json:"chick_price"`
	ExpectedPricePerBird string           `json:"expected_price_per_bird"`
	ExpectedPricePerKg   string           `json:"expected_price_per_kg"`
	Status               string           `json:"status"`
	Progress             progressResponse `json:"progress"`
}

func toBatchResponse(b core.Batch, now time.Time) batchResponse {
	p := core.BatchProgress(b.StartDate, now)
	return batchResponse{
		ID:                   b.ID,
		Name:                 b.Name,
		StartDate:            b.StartDate.String(),
		EndDate:              b.EndDate().String(),
		InitialChicks:        b.InitialChicks,
		ChickPrice:           b.ChickPrice.String(),
		ExpectedPricePerBird: b.ExpectedPricePerBird.String(),
		ExpectedPricePerKg:   b.ExpectedPricePerKg.String(),
		Status:               string(b.Status),
		Progress: progressResponse{
			DaysPassed: p.DaysPassed,
			Week:       p.Week,
			Percentage: p.Percentage,
			Completed:  p.Completed,
		},
	}
}

func toBatchResponses(batches []core.Batch, now time.Time) []batchResponse {
	out := make([]batchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b, now))
	}
	return out
}

type batchRequest struct {
	Name                 string `json:"name"`
	StartDate            string `json:"start_date"`
	InitialChicks        int    `json:"initial_chicks"`
	ChickPrice           string `json:"chick_price"`
	ExpectedPricePerBird string `json:"expected_price_per_bird"`
	ExpectedPricePerKg   string `json:"expected_price_per_kg"`
}

func (req batchRequest) toBatch() (core.Batch, error) {
	date, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Batch{}, err
	}
	chickPrice, err := parseMoney(req.ChickPrice)
	if err != nil {
		return core.Batch{}, err
	}
	perBird, err := parseMoney(req.ExpectedPricePerBird)
	if err != nil {
		return core.Batch{}, err
	}
	perKg, err := parseMoney(req.ExpectedPricePerKg)
	if err != nil {
		return core.Batch{}, err
	}
	return core.Batch{
		Name:                 sanitizeInput(req.Name),
		StartDate:            date,
		InitialChicks:        req.InitialChicks,
		ChickPrice:           chickPrice,
		ExpectedPricePerBird: perBird,
		ExpectedPricePerKg:   perKg,
	}, nil
}

type feedRequest struct {
	Type       string  `json:"type"`
	QuantityKg float64 `json:"quantity_kg"`
	PricePerKg string  `json:"price_per_kg"`
	Date       string  `json:"date"`
}

type feedResponse struct {
	ID         int64   `json:"id"`
	BatchID    int64   `json:"batch_id"`
	Type       string  `json:"type"`
	QuantityKg float64 `json:"quantity_kg"`
	PricePerKg string  `json:"price_per_kg"`
	Date       string  `json:"date"`
}

func toFeedResponse(f core.FeedPurchase) feedResponse {
	return feedResponse{
		ID:         f.ID,
		BatchID:    f.BatchID,
		Type:       string(f.Type),
		QuantityKg: f.QuantityKg,
		PricePerKg: f.PricePerKg.String(),
		Date:       f.DatePurchased.String(),
	}
}

type mortalityRequest struct {
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
	Reason   string `json:"reason"`
}

type mortalityResponse struct {
	ID       int64  `json:"id"`
	BatchID  int64  `json:"batch_id"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
	Reason   string `json:"reason"`
}

type expenseRequest struct {
	ItemName string `json:"item_name"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

type expenseResponse struct {
	ID       int64  `json:"id"`
	BatchID  int64  `json:"batch_id"`
	ItemName string `json:"item_name"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

type saleRequest struct {
	ClientID  int64   `json:"client_id"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Date      string  `json:"date"`
}

type saleResponse struct {
	ID        int64   `json:"id"`
	BatchID   int64   `json:"batch_id"`
	ClientID  int64   `json:"client_id"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Total     string  `json:"total"`
	Date      string  `json:"date"`
}

func toSaleResponse(s core.Sale) saleResponse {
	return saleResponse{
		ID:        s.ID,
		BatchID:   s.BatchID,
		ClientID:  s.ClientID,
		Type:      string(s.Type),
		Quantity:  s.Quantity,
		UnitPrice: s.Price.String(),
		Total:     s.Total.String(),
		Date:      s.Date.String(),
	}
}

type clientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type clientResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type transactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Currency    string `json:"currency"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Currency    string `json:"currency"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.String(),
		Currency:    string(t.Currency),
	}
}

type reminderResponse struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Batch    string `json:"batch"`
	Priority string `json:"priority"`
	Icon     string `json:"icon"`
}

type overviewResponse struct {
	ActiveBatches    int    `json:"active_batches"`
	CompletedBatches int    `json:"completed_batches"`
	TotalBirds       int    `json:"total_birds"`
	TotalRevenue     string `json:"total_revenue"`
}

func toOverviewResponse(ov services.FarmOverview) overviewResponse {
	return overviewResponse{
		ActiveBatches:    ov.ActiveBatches,
		CompletedBatches: ov.CompletedBatches,
		TotalBirds:       ov.TotalBirds,
		TotalRevenue:     ov.TotalRevenue.String(),
	}
}

type reportResponse struct {
	Batch   batchResponse `json:"batch"`
	EndDate string        `json:"end_date"`

	FeedCost       string  `json:"feed_cost"`
	FeedConsumedKg float64 `json:"feed_consumed_kg"`
	AvgFeedPrice   string  `json:"avg_feed_price"`
	ExpensesTotal  string  `json:"expenses_total"`
	TotalCost      string  `json:"total_cost"`

	MortalityTotal int     `json:"mortality_total"`
	MortalityRate  float64 `json:"mortality_rate"`
	SurvivingBirds int     `json:"surviving_birds"`

	Revenue          string  `json:"revenue"`
	ExpectedRevenue  string  `json:"expected_revenue"`
	RevenueVariance  string  `json:"revenue_variance"`
	BirdsSold        float64 `json:"birds_sold"`
	WeightSoldKg     float64 `json:"weight_sold_kg"`
	AvgPricePerBird  string  `json:"avg_price_per_bird"`
	AvgPricePerKg    string  `json:"avg_price_per_kg"`
	Profit           string  `json:"profit"`
	ROIPercent       float64 `json:"roi_percent"`
	BreakEvenPerBird string  `json:"break_even_per_bird"`
}

func toReportResponse(rep services.BatchReport, now time.Time) reportResponse {
	return reportResponse{
		Batch:            toBatchResponse(rep.Batch, now),
		EndDate:          rep.EndDate.String(),
		FeedCost:         rep.FeedCost.String(),
		FeedConsumedKg:   rep.FeedConsumedKg,
		AvgFeedPrice:     rep.AvgFeedPrice.String(),
		ExpensesTotal:    rep.ExpensesTotal.String(),
		TotalCost:        rep.TotalCost.String(),
		MortalityTotal:   rep.MortalityTotal,
		MortalityRate:    rep.MortalityRate,
		SurvivingBirds:   rep.SurvivingBirds,
		Revenue:          rep.Revenue.String(),
		ExpectedRevenue:  rep.ExpectedRevenue.String(),
		RevenueVariance:  rep.RevenueVariance.String(),
		BirdsSold:        rep.BirdsSold,
		WeightSoldKg:     rep.WeightSoldKg,
		AvgPricePerBird:  rep.AvgPricePerBird.String(),
		AvgPricePerKg:    rep.AvgPricePerKg.String(),
		Profit:           rep.Profit.String(),
		ROIPercent:       rep.ROIPercent,
		BreakEvenPerBird: rep.BreakEvenPerBird.String(),
	}
}
