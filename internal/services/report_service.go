package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"huku/internal/core"
	"huku/internal/ledger"
)

// BatchReport is the full economic picture of one batch at a point in
// time. A missing batch aborts the report, degenerate aggregates come
// back as zero.
type BatchReport struct {
	Batch    core.Batch
	Progress core.Progress
	EndDate  core.Date

	FeedCost       core.Money
	FeedConsumedKg float64
	AvgFeedPrice   core.Money
	ExpensesTotal  core.Money
	TotalCost      core.Money

	MortalityTotal int
	MortalityRate  float64
	SurvivingBirds int

	Revenue          core.Money
	ExpectedRevenue  core.Money
	RevenueVariance  core.Money
	BirdsSold        float64
	WeightSoldKg     float64
	AvgPricePerBird  core.Money
	AvgPricePerKg    core.Money
	Profit           core.Money
	ROIPercent       float64
	BreakEvenPerBird core.Money
}

// FarmOverview sums the whole operation.
type FarmOverview struct {
	ActiveBatches    int
	CompletedBatches int
	TotalBirds       int
	TotalRevenue     core.Money
}

type ReportService struct {
	store ledger.Store
}

func NewReportService(store ledger.Store) *ReportService {
	return &ReportService{store: store}
}

// BatchReport assembles the report for one batch. The four record lists
// are independent reads, fetched in parallel.
func (s *ReportService) BatchReport(ctx context.Context, batchID int64, now time.Time) (BatchReport, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return BatchReport{}, err
	}

	var (
		feed         []core.FeedPurchase
		expenses     []core.Expense
		sales        []core.Sale
		mortalitySum int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		feed, err = s.store.ListFeedPurchases(gctx, batchID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, batchID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.store.ListSales(gctx, batchID)
		return err
	})
	g.Go(func() error {
		var err error
		mortalitySum, err = s.store.SumMortality(gctx, batchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return BatchReport{}, err
	}

	expensesTotal := core.SumExpenses(expenses)
	totalCost := core.TotalCost(batch, feed, expensesTotal)
	surviving := core.SurvivingBirds(batch, mortalitySum)
	revenue := core.SumSales(sales)
	expected := core.ExpectedRevenue(surviving, batch.ExpectedPricePerBird)
	profit := core.Profit(revenue, totalCost)

	return BatchReport{
		Batch:    batch,
		Progress: core.BatchProgress(batch.StartDate, now),
		EndDate:  batch.EndDate(),

		FeedCost:       core.FeedCost(feed),
		FeedConsumedKg: core.TotalFeedQuantity(feed),
		AvgFeedPrice:   core.AverageFeedPricePerKg(feed),
		ExpensesTotal:  expensesTotal,
		TotalCost:      totalCost,

		MortalityTotal: mortalitySum,
		MortalityRate:  core.MortalityRate(mortalitySum, batch.InitialChicks),
		SurvivingBirds: surviving,

		Revenue:          revenue,
		ExpectedRevenue:  expected,
		RevenueVariance:  core.RevenueVariance(revenue, expected),
		BirdsSold:        core.BirdsSold(sales),
		WeightSoldKg:     core.WeightSold(sales),
		AvgPricePerBird:  core.AverageSalePrice(sales, core.SalePerBird),
		AvgPricePerKg:    core.AverageSalePrice(sales, core.SalePerKg),
		Profit:           profit,
		ROIPercent:       core.ROI(profit, totalCost),
		BreakEvenPerBird: core.BreakEvenPricePerBird(totalCost, batch.InitialChicks),
	}, nil
}

func (s *ReportService) FarmOverview(ctx context.Context) (FarmOverview, error) {
	var (
		batches []core.Batch
		revenue core.Money
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		batches, err = s.store.ListBatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = s.store.TotalRevenue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return FarmOverview{}, err
	}

	ov := FarmOverview{TotalRevenue: revenue}
	for _, b := range batches {
		switch b.Status {
		case core.StatusActive:
			ov.ActiveBatches++
			ov.TotalBirds += b.InitialChicks
		case core.StatusCompleted:
			ov.CompletedBatches++
		}
	}
	return ov, nil
}
