package procurement

import "errors"

// Precondition errors surfaced to callers when a detector has nothing to work on.
var (
	ErrNoTenders      = errors.New("no tenders found")
	ErrNoContracts    = errors.New("no contracts found")
	ErrNoMarketPrices = errors.New("no market prices found")
)
