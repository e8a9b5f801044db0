package reconcile

import (
	"regexp"
	"strings"
)

// SKUNotAvailable is returned when no SKU code can be derived.
const SKUNotAvailable = "N/A"

// skuPattern captures the trailing run of letters, digits and hyphens of
// a product display name. Product names end with the SKU code by
// convention ("Silk Saree XYZ99" -> "XYZ99").
var skuPattern = regexp.MustCompile(`([A-Za-z0-9\-]+)$`)

// ExtractSKU derives the SKU code from a product display name.
func ExtractSKU(productName string) string {
	trimmed := strings.TrimSpace(productName)
	if trimmed == "" {
		return SKUNotAvailable
	}
	match := skuPattern.FindString(trimmed)
	if match == "" {
		return SKUNotAvailable
	}
	return match
}
