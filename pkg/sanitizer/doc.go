// Package sanitizer provides input normalization functions for listing,
// booking, and user data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings or empty slices rather than errors.
//
// The package is used across services for consistent normalization before
// validation and storage:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Emails: lowercase and trim
//   - URLs: enforce HTTPS, lowercase domains, preserve paths
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Slices: remove duplicates and empty values after normalization
//   - Prices: clamp to the configured nightly range
package sanitizer
