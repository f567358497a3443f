package watch

import "time"

type Config struct {
	Debounce time.Duration
	// Ignore lists doublestar patterns matched against event paths.
	Ignore []string
}

func DefaultConfig() Config {
	return Config{
		Debounce: 300 * time.Millisecond,
		Ignore: []string{
			"**/*.tmp",
			"**/*~",
			"**/.#*",
		},
	}
}
