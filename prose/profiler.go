// Copyright © 2024 The ELPS authors

package prose

// Profiler observes the application of functions and macros.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session
	Complete() error
	// Start marks the beginning of the application of fun and returns a
	// function which marks its end.
	Start(fun *Val) func()
}
