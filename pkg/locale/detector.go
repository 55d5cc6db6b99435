package locale

import "strings"

func InferTimezoneFromPhone(phone string) string {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return country.DefaultTimezone
			}
		}
	}

	return DefaultTimezone
}

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}

// InferCurrency picks the pricing currency for a listing's country. Ethiopian
// listings price in birr, everything else in dollars.
func InferCurrency(countryCode string) string {
	if country, ok := Countries[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return country.Currency
	}
	return DefaultCurrency
}
