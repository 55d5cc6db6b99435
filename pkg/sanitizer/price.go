package sanitizer

// ClampPrice bounds a nightly price to the configured range.
func ClampPrice(price, min, max float64) float64 {
	if price < min {
		return min
	}
	if price > max {
		return max
	}
	return price
}
