// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package viewstate provides the observable state container between the
// repository layer and the presentation layer. The repositories stay plain
// asynchronous functions returning plain data; the service publishes their
// combined result here and any number of consumers subscribe to updates.
package viewstate

import (
	"sync"
	"time"

	"github.com/skycastd/skycast/internal/netmon"
	"github.com/skycastd/skycast/internal/weather"
)

// View is one combined reading of the home flow.
type View struct {
	Weather      *weather.Snapshot
	Astronomy    *weather.Astronomy
	Connectivity netmon.State
	UpdatedAt    time.Time
}

// HasContent reports whether the view is renderable content. Both the weather
// and the astronomy fetch must have resolved to a present value.
func (v View) HasContent() bool {
	return v.Weather != nil && v.Astronomy != nil
}

// Container coordinates the publishing and subscribing of view updates.
type Container struct {
	mu          sync.RWMutex
	current     View
	hasCurrent  bool
	subscribers map[chan View]struct{}
}

// New returns a new empty Container.
func New() *Container {
	return &Container{
		subscribers: make(map[chan View]struct{}),
	}
}

// Subscribe adds a subscriber with the given buffer size, returning a view
// channel and an unsubscribe function. A subscriber immediately receives the
// current view if one has been published.
func (c *Container) Subscribe(buffer int) (<-chan View, func()) {
	viewChan := make(chan View, buffer)
	c.mu.Lock()
	c.subscribers[viewChan] = struct{}{}
	if c.hasCurrent {
		viewChan <- c.current
	}
	c.mu.Unlock()

	unsub := func() {
		c.mu.Lock()
		delete(c.subscribers, viewChan)
		c.mu.Unlock()
		close(viewChan)
	}

	return viewChan, unsub
}

// Publish replaces the current view and broadcasts it to all subscribers.
// Slow subscribers miss intermediate views instead of blocking the publisher;
// last-writer-wins is the visible behavior.
func (c *Container) Publish(v View) {
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = time.Now()
	}

	c.mu.Lock()
	c.current = v
	c.hasCurrent = true
	for ch := range c.subscribers {
		select {
		case ch <- v:
		default:
		}
	}
	c.mu.Unlock()
}

// Current returns the most recently published view.
func (c *Container) Current() (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.hasCurrent
}
