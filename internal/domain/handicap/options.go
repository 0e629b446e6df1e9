package handicap

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWindow sets the window length and how many same results in it fire an
// adjustment. Ignored unless threshold is a strict majority of size, so a
// window can never qualify as both a cut and an increase.
func WithWindow(size, threshold int) Option {
	return func(e *Engine) {
		if size > 0 && threshold <= size && threshold*2 > size {
			e.window = size
			e.threshold = threshold
		}
	}
}

// WithStep sets the handicap change per adjustment.
func WithStep(step int) Option {
	return func(e *Engine) {
		if step > 0 {
			e.step = step
		}
	}
}

// WithCooldown sets how many games after a trigger are skipped before the
// next evaluation.
func WithCooldown(games int) Option {
	return func(e *Engine) {
		if games > 0 {
			e.cooldown = games
		}
	}
}
