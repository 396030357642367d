package domain

type InstrumentType string

const (
	Equity  InstrumentType = "EQUITY"
	ETF     InstrumentType = "ETF"
	Futures InstrumentType = "FUTURES"
	Options InstrumentType = "OPTIONS"
)

// Instrument is a tradable (symbol, exchange) pair with its current
// reference price. Prices are externally supplied; the catalog only
// stores the latest value.
type Instrument struct {
	Symbol          string
	Exchange        string
	Type            InstrumentType
	LastTradedPrice float64
}
