package matching

// Config contains the scoring weights and candidate cap. It is injected
// rather than read from package constants so tests can vary weights
// deterministically.
type Config struct {
	// TierWeight (W1) multiplies the verification-tier score
	// (unverified/pending=0, verified=1, trusted=2, premium=3).
	TierWeight float64
	// RatingWeight (W2) multiplies the rating normalized from 0..5 to 0..1.
	RatingWeight float64
	// ResponseRateWeight (W3) multiplies the supplier response rate. The
	// directory does not populate the metric yet, so the default source
	// contributes nothing; the weight exists so the scoring formula is
	// already in place when it does.
	ResponseRateWeight float64
	// Cap bounds how many suppliers one RFQ notifies.
	Cap int
}

func DefaultConfig() Config {
	return Config{
		TierWeight:         2.0,
		RatingWeight:       1.0,
		ResponseRateWeight: 0.0,
		Cap:                10,
	}
}
