// Package notify fans out values to subscribed channels.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const DefaultTimeout = 200 * time.Millisecond

type subscriber[E any] struct {
	ch      chan<- E
	comment string
	lossy   bool
}

type Multiplexer[E any] struct {
	comment string
	// Timeout is how long Send waits for a lossy subscriber before skipping it.
	Timeout time.Duration

	subscribersLock sync.Mutex
	subscribers     []subscriber[E]
}

func NewMultiplexer[E any](comment string) *Multiplexer[E] {
	return &Multiplexer[E]{
		comment: comment,
		Timeout: DefaultTimeout,
	}
}

// Subscribe adds c. Send blocks until c receives.
func (m *Multiplexer[E]) Subscribe(comment string, c chan<- E) {
	m.subscribe(subscriber[E]{ch: c, comment: comment})
}

// SubscribeLossy adds c. Send skips c if it doesn't receive within Timeout.
func (m *Multiplexer[E]) SubscribeLossy(comment string, c chan<- E) {
	m.subscribe(subscriber[E]{ch: c, comment: comment, lossy: true})
}

func (m *Multiplexer[E]) subscribe(sub subscriber[E]) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	m.subscribers = append(m.subscribers, sub)
}

// Unsubscribe removes c. c must be subscribed.
func (m *Multiplexer[E]) Unsubscribe(c chan<- E) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	i := slices.IndexFunc(m.subscribers, func(sub subscriber[E]) bool { return sub.ch == c })
	if i == -1 {
		panic("already unsubscribed")
	}
	m.subscribers = slices.Delete(m.subscribers, i, i+1)
}

// Len returns the number of subscribers.
func (m *Multiplexer[E]) Len() int {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	return len(m.subscribers)
}

// Send sends e to every subscriber in order of subscription, and returns how many lossy subscribers were skipped.
func (m *Multiplexer[E]) Send(e E) (skipped int) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	for _, sub := range m.subscribers {
		if !sub.lossy {
			sub.ch <- e
			continue
		}
		select {
		case sub.ch <- e:
		case <-time.After(m.Timeout):
			skipped++
			zap.S().Warnf("multiplexer %s: subscriber %s timed out", m.comment, sub.comment)
		}
	}
	return skipped
}
