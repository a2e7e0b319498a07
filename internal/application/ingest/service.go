package ingest

import (
	"errors"
	"math/rand"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/imports"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

// ErrInvalidRequest marks caller mistakes (bad dataType, malformed CSV,
// nothing importable). The router maps it to a 400.
var ErrInvalidRequest = errors.New("invalid request")

// Catalog carries the reference lists used by the generators and the brand
// scanner. Loaded from config so tests can substitute minimal fixtures.
type Catalog struct {
	Entities   []string
	Categories []string
	Sources    []string
	Brands     []string
	Items      map[string][]string
	BasePrices map[string]float64
}

// Service implements use-cases untuk import/export CSV dan data generator.
type Service struct {
	Tenders   procurement.TenderRepository
	Contracts procurement.ContractRepository
	Market    procurement.MarketPriceRepository
	Results   domain.Repository
	ImportLog imports.Repository
	Artifacts domain.ArtifactStore // optional, nil disables archiving
	Clock     Clock
	Catalog   Catalog

	// Rand overrides the generator randomness when set; tests pass a fixed seed.
	Rand *rand.Rand
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
