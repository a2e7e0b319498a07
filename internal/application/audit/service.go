package audit

import (
	"context"
	"math/rand"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

// Service implements use-cases untuk audit run.
// Each run is a single synchronous batch over a snapshot of the tables;
// detectors keep no state between runs.
type Service struct {
	Tenders   procurement.TenderRepository
	Contracts procurement.ContractRepository
	Market    procurement.MarketPriceRepository
	Results   domain.Repository
	Clock     Clock

	// Rand overrides the per-run randomness source when set (tests pass a
	// fixed seed). When nil every run draws a fresh wall-clock seed.
	Rand *rand.Rand

	// BrandKeywords is the configured brand catalog scanned by the text model.
	BrandKeywords []string
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

func (s *Service) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// replaceResults swaps one model partition: delete old rows, bulk insert the
// new set. There is no transaction across the two statements; a failed insert
// leaves the partition empty rather than mixed.
func (s *Service) replaceResults(ctx context.Context, model domain.ModelType, results []*domain.Result) error {
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if err := s.Results.DeleteByModelType(ctx, model); err != nil {
		return err
	}
	_, err := s.Results.InsertBatch(ctx, results)
	return err
}

//
// ==== USE CASES ====
//

// RunAll jalankan tiga model berurutan: process, price, text.
// Kegagalan satu model menghentikan urutan.
func (s *Service) RunAll(ctx context.Context) (domain.RunAllSummary, error) {
	var out domain.RunAllSummary
	var err error
	if out.Process, err = s.RunProcessModel(ctx); err != nil {
		return out, err
	}
	if out.Price, err = s.RunPriceModel(ctx); err != nil {
		return out, err
	}
	if out.Text, err = s.RunTextModel(ctx); err != nil {
		return out, err
	}
	return out, nil
}
