package sheets

import "context"

// SaleRow is one exported sale, denormalized for the spreadsheet.
type SaleRow struct {
	Date       string
	BatchName  string
	ClientName string
	SaleType   string
	Quantity   float64
	UnitPrice  float64
	Total      float64
}

// SaleWriter is the outbound port for the spreadsheet export.
type SaleWriter interface {
	Append(ctx context.Context, row SaleRow) (rowRef string, err error)
}
