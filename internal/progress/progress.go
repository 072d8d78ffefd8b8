// Package progress defines the one-way callback the pack/unpack engine
// uses to report human-readable status to whatever is driving it, be it
// a plain terminal writer or a Bubble Tea program.
package progress

import "fmt"

// Sink accepts a human-readable progress line. Implementations must be
// safe to call from a worker goroutine; the engine itself is single-threaded
// but callers may bridge Notify across a channel to a UI event loop.
type Sink interface {
	Notify(msg string)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(string)

func (f SinkFunc) Notify(msg string) { f(msg) }

// Nop discards every notification.
func Nop() Sink { return SinkFunc(func(string) {}) }

// Stdout writes every notification to os.Stdout via fmt.Println, matching
// the plain progress callback the original CLI used before a UI existed.
func Stdout() Sink {
	return SinkFunc(func(msg string) {
		fmt.Println(msg)
	})
}

// Collector is a Sink that also remembers every message it has seen, used
// by tests that need to assert on the sequence of progress notifications.
type Collector struct {
	Messages []string
}

func (c *Collector) Notify(msg string) {
	c.Messages = append(c.Messages, msg)
}
