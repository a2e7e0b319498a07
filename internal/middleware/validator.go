package middleware

import (
	"fmt"
	"strings"
)

// Input validation utilities for request parameters

// ValidateImportDataType checks the dataType accepted by the importer.
func ValidateImportDataType(dataType string) error {
	allowed := map[string]bool{
		"tenders":       true,
		"contracts":     true,
		"market_prices": true,
	}

	if !allowed[strings.ToLower(dataType)] {
		return fmt.Errorf("invalid dataType: %s (allowed: tenders, contracts, market_prices)", dataType)
	}
	return nil
}

// ValidateExportDataType checks the dataType accepted by the exporter.
func ValidateExportDataType(dataType string) error {
	allowed := map[string]bool{
		"tenders":       true,
		"contracts":     true,
		"market_prices": true,
		"audit_results": true,
	}

	if !allowed[strings.ToLower(dataType)] {
		return fmt.Errorf("invalid dataType: %s (allowed: tenders, contracts, market_prices, audit_results)", dataType)
	}
	return nil
}

// ValidateScope checks an AI summary scope parameter.
func ValidateScope(scope string) error {
	if scope == "" {
		return nil // defaults to "all"
	}
	allowed := map[string]bool{
		"all":     true,
		"process": true,
		"price":   true,
		"text":    true,
	}
	if !allowed[strings.ToLower(scope)] {
		return fmt.Errorf("invalid scope: %s (allowed: all, process, price, text)", scope)
	}
	return nil
}

// ValidateCount clamps a generator count parameter.
func ValidateCount(count, def, max int) int {
	if count <= 0 {
		return def
	}
	if count > max {
		return max
	}
	return count
}

// ValidatePage validates a pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidatePageSize validates pagination page size
func ValidatePageSize(pageSize int) int {
	if pageSize <= 0 {
		return 20 // default
	}
	if pageSize > 100 {
		return 100 // max
	}
	return pageSize
}
