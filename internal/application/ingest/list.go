package ingest

import (
	"context"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

// Listing use-cases back the read-only data endpoints. Empty tables come back
// as empty slices so the JSON layer never emits null.

func (s *Service) ListTenders(ctx context.Context) ([]*procurement.Tender, error) {
	list, err := s.Tenders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*procurement.Tender{}
	}
	return list, nil
}

func (s *Service) ListContracts(ctx context.Context) ([]*procurement.Contract, error) {
	list, err := s.Contracts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*procurement.Contract{}
	}
	return list, nil
}

func (s *Service) ListMarketPrices(ctx context.Context) ([]*procurement.MarketPrice, error) {
	list, err := s.Market.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*procurement.MarketPrice{}
	}
	return list, nil
}

// ListAuditResults returns all stored results, or only one tender's results
// when tenderID is set.
func (s *Service) ListAuditResults(ctx context.Context, tenderID string) ([]*domain.Result, error) {
	var (
		list []*domain.Result
		err  error
	)
	if tenderID != "" {
		list, err = s.Results.GetByTenderID(ctx, tenderID)
	} else {
		list, err = s.Results.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Result{}
	}
	return list, nil
}
