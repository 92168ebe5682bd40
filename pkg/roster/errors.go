package roster

import "fmt"

// ConfigurationError reports roster input that cannot be turned into a
// model at all. It is raised before any solve attempt and is never
// retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid roster configuration: %s", e.Reason)
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
