package socrata

import "errors"

var (
	// ErrInvalidSpec marks a malformed QuerySpec (inverted year range,
	// non-positive limit). Never retried, never reaches the network.
	ErrInvalidSpec = errors.New("invalid query spec")

	// ErrNetwork marks a connection failure or timeout that survived the
	// retry budget.
	ErrNetwork = errors.New("network failure")

	// ErrHTTPStatus marks a non-2xx response. Treated as non-transient.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrParse marks a response body that does not decode as the expected
	// wire shape.
	ErrParse = errors.New("malformed response body")

	// ErrSchema marks a well-formed response that is missing a required
	// column. Distinct from per-row drops during normalization.
	ErrSchema = errors.New("required column missing")
)
