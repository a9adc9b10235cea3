// Package score defines the report type shared by all scorers.
package score

// Report maps metric names to values in [0, 1].
type Report map[string]float64

// Get returns the named metric, or 0 if absent.
func (r Report) Get(name string) float64 { return r[name] }
