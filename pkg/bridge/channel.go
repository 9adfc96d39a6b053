// Package bridge translates named method calls from an application front-end
// into host operations.
package bridge

import (
	"errors"
	"fmt"
	"sync"
)

// Handler answers method calls arriving on a channel.
type Handler interface {
	Handle(method string, args map[string]any) Result
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(method string, args map[string]any) Result

// Handle calls f(method, args).
func (f HandlerFunc) Handle(method string, args map[string]any) Result {
	return f(method, args)
}

// Chain returns a Handler that offers each call to handlers in order and
// returns the first reply that is not NotImplemented.
func Chain(handlers ...Handler) Handler {
	return HandlerFunc(func(method string, args map[string]any) Result {
		for _, h := range handlers {
			if r := h.Handle(method, args); !r.IsNotImplemented() {
				return r
			}
		}
		return NotImplemented()
	})
}

// ErrHandlerRegistered is returned when a channel already has a handler.
var ErrHandlerRegistered = errors.New("channel already has a handler")

// Channel is a named method channel with a single handler.
type Channel struct {
	name string

	mu      sync.RWMutex
	handler Handler
}

// NewChannel creates an unbound channel.
func NewChannel(name string) *Channel {
	return &Channel{name: name}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// SetHandler binds h to the channel. A channel accepts exactly one handler;
// compose several with Chain.
func (c *Channel) SetHandler(h Handler) error {
	if h == nil {
		return errors.New("nil handler")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler != nil {
		return fmt.Errorf("%s: %w", c.name, ErrHandlerRegistered)
	}
	c.handler = h
	return nil
}

// Invoke dispatches a call to the bound handler. An unbound channel answers
// NotImplemented.
func (c *Channel) Invoke(method string, args map[string]any) Result {
	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()

	if h == nil {
		return NotImplemented()
	}
	return h.Handle(method, args)
}
