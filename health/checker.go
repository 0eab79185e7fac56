package health

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Status is the state of a checked component. Higher values are worse.
type Status int

const (
	// StatusHealthy means every measured resource is within its limit.
	StatusHealthy Status = iota
	// StatusDegraded means the component still answers but a soft limit is exceeded.
	StatusDegraded
	// StatusUnhealthy means the component cannot answer, or its check failed.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Worse returns the more severe of s and other.
func (s Status) Worse(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// Result is the outcome of one check.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	CheckedAt time.Time
	Err       error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy creates an unhealthy result carrying err.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Err: err, CheckedAt: time.Now()}
}

// WithDetail returns a copy of r with key set in its details.
func (r Result) WithDetail(key string, value any) Result {
	details := make(map[string]any, len(r.Details)+1)
	maps.Copy(details, r.Details)
	details[key] = value
	r.Details = details
	return r
}

// Usage is one resource measured against a soft limit.
type Usage struct {
	Name  string
	Used  int
	Limit int // <= 0 means unlimited
}

// Exceeded reports whether Used is above a positive Limit.
func (u Usage) Exceeded() bool {
	return u.Limit > 0 && u.Used > u.Limit
}

// FromUsage reports Degraded when any usage exceeds its limit and Healthy
// otherwise. Each usage appears in the details under its name, and its limit,
// when set, under <name>_limit.
func FromUsage(usages ...Usage) Result {
	details := make(map[string]any, 2*len(usages))
	var over []string
	for _, u := range usages {
		details[u.Name] = u.Used
		if u.Limit > 0 {
			details[u.Name+"_limit"] = u.Limit
		}
		if u.Exceeded() {
			over = append(over, fmt.Sprintf("%s %d > %d", u.Name, u.Used, u.Limit))
		}
	}

	r := Healthy("ok")
	if len(over) > 0 {
		r = Degraded("over limit: " + strings.Join(over, ", "))
	}
	r.Details = details
	return r
}

// Checker reports the health of one component. Check should return promptly
// once ctx is done.
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckFunc adapts an ordinary function to a Checker.
type CheckFunc func(ctx context.Context) Result

// Check calls f(ctx).
func (f CheckFunc) Check(ctx context.Context) Result {
	return f(ctx)
}
