// Package clock lets callers replace time.Now in tests.
package clock
