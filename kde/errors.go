package kde

import "errors"

// Construction and query failures. Returned errors wrap one of these, so
// callers can test with errors.Is.
var (
	ErrEmptyDataset      = errors.New("kde: empty dataset")
	ErrInvalidKappa      = errors.New("kde: kappa must be finite and non-negative")
	ErrDegenerateWeights = errors.New("kde: weights must be finite, non-negative and sum to a positive value")
	ErrWeightsLength     = errors.New("kde: weights length does not match data length")
	ErrInvalidGrid       = errors.New("kde: grid needs at least two points")
	ErrDegenerateDensity = errors.New("kde: density has no finite positive area")
	ErrOutOfDomain       = errors.New("kde: query outside interpolation domain")
)
