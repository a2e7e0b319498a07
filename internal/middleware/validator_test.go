package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImportDataType(t *testing.T) {
	assert.NoError(t, ValidateImportDataType("tenders"))
	assert.NoError(t, ValidateImportDataType("contracts"))
	assert.NoError(t, ValidateImportDataType("MARKET_PRICES"))

	err := ValidateImportDataType("audit_results")
	assert.Error(t, err)
	assert.EqualError(t, err, "invalid dataType: audit_results (allowed: tenders, contracts, market_prices)")
}

func TestValidateExportDataType(t *testing.T) {
	assert.NoError(t, ValidateExportDataType("audit_results"))
	assert.NoError(t, ValidateExportDataType("tenders"))

	err := ValidateExportDataType("suppliers")
	assert.Error(t, err)
	assert.EqualError(t, err, "invalid dataType: suppliers (allowed: tenders, contracts, market_prices, audit_results)")
}

func TestValidateScope(t *testing.T) {
	assert.NoError(t, ValidateScope(""))
	assert.NoError(t, ValidateScope("all"))
	assert.NoError(t, ValidateScope("process"))
	assert.NoError(t, ValidateScope("Price"))

	err := ValidateScope("weather")
	assert.Error(t, err)
	assert.EqualError(t, err, "invalid scope: weather (allowed: all, process, price, text)")
}

func TestValidateCount(t *testing.T) {
	assert.Equal(t, 50, ValidateCount(0, 50, 1000))
	assert.Equal(t, 50, ValidateCount(-3, 50, 1000))
	assert.Equal(t, 200, ValidateCount(200, 50, 1000))
	assert.Equal(t, 1000, ValidateCount(5000, 50, 1000))
}

func TestValidatePaging(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 3, ValidatePage(3))
	assert.Equal(t, 20, ValidatePageSize(0))
	assert.Equal(t, 100, ValidatePageSize(500))
	assert.Equal(t, 25, ValidatePageSize(25))
}
