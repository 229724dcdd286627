package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDirectoryFetch indicates that the currency directory could not be retrieved
// from the remote API. Network failures, HTTP error statuses and malformed
// payloads all collapse into this error.
var ErrDirectoryFetch = errors.New("failed to fetch currencies")

// ErrConversionFetch indicates that a conversion could not be retrieved from the
// remote API, for the same set of reasons as ErrDirectoryFetch.
var ErrConversionFetch = errors.New("failed to convert currency")
