package observe

import "errors"

// Configuration errors returned by Config.Validate.
var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample ratio must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// ErrNilObserver indicates a nil Observer was provided.
var ErrNilObserver = errors.New("observe: observer is nil")

// RedactedFields lists field keys whose values are replaced with [REDACTED].
// The memoizer never logs raw arguments or readable cache keys; these cover
// fields added by callers through their own Logger use.
var RedactedFields = []string{
	"args",
	"key",
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"credential",
}
