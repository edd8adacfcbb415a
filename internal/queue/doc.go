// Package queue buffers entries produced on arbitrary goroutines until the
// owner goroutine drains them.
//
// Go has no goroutine identity, so ownership travels in a context: the owner
// marks its context with OwnerContext and every Enqueue made with a marked
// context forwards immediately. Everything else is appended under a mutex
// and forwarded by the next DrainOnce.
package queue
