package inject

var (
	// defaultContainer holds the default Container.
	defaultContainer *Container
)

// SetDefault sets the default Container used by callers that want a
// process-wide registry. This is similar to slog.SetDefault.
//
// Pass nil to remove the default container.
func SetDefault(c *Container) {
	defaultContainer = c
}

// Default returns the current default Container.
// Returns nil if no default container has been set.
func Default() *Container {
	return defaultContainer
}
