package ports

import "context"

// SentimentScorer is the narrow interface to an external sentiment model.
// Score returns a polarity in [-1, 1]. Errors are per message: the engine
// logs them and treats that message as unscored.
//
// The capability is resolved once at startup. A nil scorer means the
// sentiment step is skipped entirely.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}
