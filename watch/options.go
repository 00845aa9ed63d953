package watch

// Logger interface for registry bookkeeping messages.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type config struct {
	logger Logger
}

// Option defines a functional option for configuring a Registry or a Watcher.
type Option func(*config) error

// WithLogger sets the logger. Registrations, replacements and teardowns are logged at debug level.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

func buildConfig(options []Option) (config, error) {
	var c config

	for _, option := range options {
		if err := option(&c); err != nil {
			return config{}, err
		}
	}

	return c, nil
}
