package procurement

import "context"

// TenderRepository port (interface untuk persistence)
type TenderRepository interface {
	GetAll(ctx context.Context) ([]*Tender, error)
	InsertBatch(ctx context.Context, tenders []*Tender) (int, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// ContractRepository port
type ContractRepository interface {
	GetAll(ctx context.Context) ([]*Contract, error)
	InsertBatch(ctx context.Context, contracts []*Contract) (int, error)
	DeleteAll(ctx context.Context) error
}

// MarketPriceRepository port
type MarketPriceRepository interface {
	GetAll(ctx context.Context) ([]*MarketPrice, error)
	InsertBatch(ctx context.Context, prices []*MarketPrice) (int, error)
	DeleteAll(ctx context.Context) error
}
