// internal/domain/catalog/ratings.go
package catalog

// Ratings are not provided by the product API. They are derived
// deterministically from the product id so the same product always shows
// the same rating, matching what the storefront has historically rendered.

// hashString produces a 32-bit hash of the input, with the same overflow
// behavior as the storefront's existing hash (signed 32-bit arithmetic,
// absolute value taken at the end).
func hashString(s string) int32 {
	var hash int32
	for _, r := range s {
		hash = hash*31 + int32(r)
	}
	if hash < 0 {
		return -hash
	}
	return hash
}

// seededRandom maps an id and salt to a value in [0, 1)
func seededRandom(id, salt string) float64 {
	return float64(hashString(id+salt)%1000) / 1000
}

// Rating returns the deterministic star rating for a product id
func Rating(id string) float64 {
	seed := seededRandom(id, "1")
	switch {
	case seed < 0.4:
		return 5.0
	case seed < 0.6:
		return 4.5
	case seed < 0.8:
		return 4.0
	default:
		return 4.5
	}
}

// ReviewCount returns the deterministic review count for a product id,
// always between 10 and 110.
func ReviewCount(id string) int {
	return int(hashString(id+"reviews")%101) + 10
}
