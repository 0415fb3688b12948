package dice

import "go.uber.org/zap"

// LoggedSource wraps a RandomSource and logs each draw at debug level with
// its position in the draw sequence.
//
// Replays diverge when the draw count or order changes between versions;
// the draw index makes that divergence visible in logs.
type LoggedSource struct {
	next   RandomSource
	logger *zap.Logger
	draws  int
}

// NewLoggedSource creates a LoggedSource around next.
//
// Precondition: next must be non-nil. A nil logger disables output.
func NewLoggedSource(next RandomSource, logger *zap.Logger) *LoggedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggedSource{next: next, logger: logger}
}

// IntRange delegates to the wrapped source and logs the draw.
func (l *LoggedSource) IntRange(lo, hi int) int {
	v := l.next.IntRange(lo, hi)
	l.draws++
	l.logger.Debug("random draw",
		zap.Int("draw", l.draws),
		zap.String("kind", "int_range"),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("result", v),
	)
	return v
}

// Bool delegates to the wrapped source and logs the draw.
func (l *LoggedSource) Bool(p float64) bool {
	v := l.next.Bool(p)
	l.draws++
	l.logger.Debug("random draw",
		zap.Int("draw", l.draws),
		zap.String("kind", "bool"),
		zap.Float64("p", p),
		zap.Bool("result", v),
	)
	return v
}

// Draws returns the number of draws made so far.
func (l *LoggedSource) Draws() int {
	return l.draws
}
