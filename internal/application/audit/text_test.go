package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

// textFixture: one brand-locked tender, one copy-pasted pair, one clean
// tender, and a second copy-pasted pair that also names a brand.
func textFixture() []*procurement.Tender {
	return []*procurement.Tender{
		{TenderID: "TND-1", Description: "Supply of dell branded laptops only no equivalents considered"},
		{TenderID: "TND-2", Description: "Construction of rural access roads in western region phase two"},
		{TenderID: "TND-3", Description: "Construction of rural access roads in western region phase two"},
		{TenderID: "TND-4", Description: "Annual supply of fresh produce to county schools kitchens"},
		{TenderID: "TND-5", Description: "Procurement of hp printers and toner cartridges for head office"},
		{TenderID: "TND-6", Description: "Procurement of hp printers and toner cartridges for head office"},
	}
}

func resultByTender(rows []*domain.Result, tenderID string) *domain.Result {
	for _, r := range rows {
		if r.TenderID == tenderID {
			return r
		}
	}
	return nil
}

func TestRunTextModel_BrandBiasAndCollusion(t *testing.T) {
	svc, results := newTestService(textFixture(), nil, nil)

	sum, err := svc.RunTextModel(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ModelText, sum.ModelType)
	assert.Equal(t, 6, sum.TotalProcessed)
	// T1 bias, the T2/T3 pair once, T5 and T6 each for their brand mention
	assert.Equal(t, 4, sum.AnomaliesFound)

	rows := results.byModel[domain.ModelText]
	require.Len(t, rows, 6)

	bias := resultByTender(rows, "TND-1")
	require.NotNil(t, bias)
	assert.True(t, bias.IsAnomaly)
	assert.InDelta(t, 0.9, bias.AnomalyScore, 1e-9)
	assert.Equal(t, "Brand bias detected: dell", bias.Explanation)

	clean := resultByTender(rows, "TND-4")
	require.NotNil(t, clean)
	assert.False(t, clean.IsAnomaly)
	assert.Zero(t, clean.AnomalyScore)
	assert.Equal(t, "No text anomalies detected", clean.Explanation)
}

func TestRunTextModel_DuplicatePairFlagsBothRows(t *testing.T) {
	svc, results := newTestService(textFixture(), nil, nil)

	_, err := svc.RunTextModel(context.Background())
	require.NoError(t, err)

	rows := results.byModel[domain.ModelText]

	first := resultByTender(rows, "TND-2")
	require.NotNil(t, first)
	assert.True(t, first.IsAnomaly)
	assert.InDelta(t, 1.0, first.AnomalyScore, 1e-9)
	assert.Equal(t, "High similarity to tender TND-3 (100.0% match). Possible bid coordination or shared documents", first.Explanation)

	second := resultByTender(rows, "TND-3")
	require.NotNil(t, second)
	assert.True(t, second.IsAnomaly)
	assert.Contains(t, second.Explanation, "High similarity to tender TND-2")
}

func TestRunTextModel_CombinedBiasAndCollusion(t *testing.T) {
	svc, results := newTestService(textFixture(), nil, nil)

	_, err := svc.RunTextModel(context.Background())
	require.NoError(t, err)

	rows := results.byModel[domain.ModelText]
	combined := resultByTender(rows, "TND-5")
	require.NotNil(t, combined)
	assert.True(t, combined.IsAnomaly)
	assert.InDelta(t, 1.0, combined.AnomalyScore, 1e-9)
	assert.Equal(t, "Brand bias detected: hp ALSO: High similarity to tender TND-6 (100.0% match)", combined.Explanation)
}

func TestRunTextModel_NoTenders(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)

	_, err := svc.RunTextModel(context.Background())
	assert.ErrorIs(t, err, procurement.ErrNoTenders)
}
