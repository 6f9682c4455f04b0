// Package aptconn implements the APT connection core (C3): a single serial
// link multiplexed among an ordered command/reply stream, unordered status
// polling, unsolicited events, and concurrent callers. It owns the serial
// transport, runs the RX dispatcher and TX ordered sender, and exposes the
// three send primitives plus the one subscribe primitive the rest of the
// module is built on.
package aptconn

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
)

// State is the Connection lifecycle state machine: Unopened -> Open ->
// Closing -> Closed. Closed is terminal.
type State int32

const (
	Unopened State = iota
	StateOpen
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case StateOpen:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// orderedSettleDelay is the empirical post-write hold documented in §9(c):
// certain no-reply commands hang the firmware if the next message arrives
// too quickly. Kept as a variable, not a const, so tests can shrink it.
var orderedSettleDelay = 200 * time.Millisecond

// DefaultReplyDeadline is how long send_expect_reply waits for a match
// before failing Timeout.
const DefaultReplyDeadline = 10 * time.Second

// DefaultSettleDelay is how long Open waits after sending
// HW_STOP_UPDATEMSGS before draining buffers and starting workers.
const DefaultSettleDelay = 100 * time.Millisecond

type orderedItem struct {
	msg     apt.Message
	matcher func(apt.Message) bool
	reply   chan apt.Message
}

// Options configures a Connection's non-wire behavior. Wire parameters
// (baud/framing/flow control) are fixed by serial.OpenAPT and are not
// configurable here, per spec: the APT family has exactly one wire
// configuration.
type Options struct {
	// Log receives structured lifecycle/traffic events. Defaults to
	// logrus.StandardLogger().
	Log *logrus.Logger
	// Metrics, if non-nil, receives connection counters. A nil Metrics is
	// a documented no-op; see metrics.go.
	Metrics *Metrics
	// SettleDelay is how long Open waits after sending HW_STOP_UPDATEMSGS
	// before resetting buffers and starting workers.
	SettleDelay time.Duration
	// ReplyDeadline overrides DefaultReplyDeadline.
	ReplyDeadline time.Duration
	// HostAddress and DeviceAddress override the default
	// HOST_CONTROLLER / GENERIC_USB addressing, for rack-mounted devices
	// addressed as a BAY_n.
	HostAddress, DeviceAddress apt.Address
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	out := *o
	if out.Log == nil {
		out.Log = logrus.StandardLogger()
	}
	if out.SettleDelay == 0 {
		out.SettleDelay = DefaultSettleDelay
	}
	if out.ReplyDeadline == 0 {
		out.ReplyDeadline = DefaultReplyDeadline
	}
	if out.HostAddress == 0 {
		out.HostAddress = apt.HostController
	}
	if out.DeviceAddress == 0 {
		out.DeviceAddress = apt.GenericUSB
	}
	return &out
}

// Connection is one open serial link to an APT device. It is safe for
// concurrent use by any number of callers and controllers; its only public
// mutating operation besides the send/subscribe primitives is Close.
type Connection struct {
	opts      *Options
	transport Transport

	state atomic.Int32

	writeMu sync.Mutex

	// sendMu guards against sending on orderedQueue concurrently with it
	// being closed: Close takes the write lock before closing; every
	// send primitive takes the read lock around its checkOpen-then-send.
	sendMu sync.RWMutex

	subMu sync.Mutex
	subs  map[xid.ID]*inbox

	orderedQueue chan orderedItem
	awaitReply   *awaitingReply

	workers sync.WaitGroup

	infoMu sync.RWMutex
	info   *apt.HWGetInfo
}

// Open creates and fully initializes a Connection over transport: sends
// HW_STOP_UPDATEMSGS, waits SettleDelay, drains stale buffered bytes, starts
// the RX dispatcher and TX ordered sender, and sends HW_REQ_INFO as a
// responsiveness check.
func Open(transport Transport, opts *Options) (*Connection, error) {
	const op = "aptconn.Open"
	o := opts.withDefaults()

	c := &Connection{
		opts:         o,
		transport:    transport,
		subs:         make(map[xid.ID]*inbox),
		orderedQueue: make(chan orderedItem, 64),
		awaitReply:   newAwaitingReply(),
	}
	c.state.Store(int32(Unopened))

	stop := apt.NewHWStopUpdateMsgs(o.DeviceAddress, o.HostAddress)
	if _, err := c.transport.Write(stop.Encode()); err != nil {
		return nil, apterr.Wrap(apterr.TransportIO, op, err)
	}

	time.Sleep(o.SettleDelay)

	if d, ok := transport.(Drainer); ok {
		if err := d.Drain(); err != nil {
			o.Log.WithError(err).Debug("aptconn: drain failed during open")
		}
	}

	c.state.Store(int32(StateOpen))

	c.workers.Add(2)
	go c.rxDispatch()
	go c.txOrderedSend()

	o.Log.WithFields(logrus.Fields{"event": EventDeviceConnected}).Info("aptconn: connection open")

	reqInfo := apt.NewHWReqInfo(o.DeviceAddress, o.HostAddress)
	reply, err := c.SendExpectReply(reqInfo, func(m apt.Message) bool {
		_, ok := m.(apt.HWGetInfo)
		return ok
	})
	if err != nil {
		o.Log.WithFields(logrus.Fields{"event": EventDeviceNotConnectedError}).WithError(err).Warn("aptconn: device did not answer HW_REQ_INFO")
		return c, nil
	}
	info := reply.(apt.HWGetInfo)
	c.infoMu.Lock()
	c.info = &info
	c.infoMu.Unlock()
	return c, nil
}

// Info returns the HW_GET_INFO reply observed during Open, or nil if the
// device never answered.
func (c *Connection) Info() *apt.HWGetInfo {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return c.info
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// AwaitingReply reports whether the ordered sender is currently blocked
// waiting for a reply match. Device pollers use this to switch between a
// fast (200ms) and slow (1s) status-request cadence, polling at the fast
// cadence while a command/reply exchange is in flight.
func (c *Connection) AwaitingReply() bool {
	return c.awaitReply.IsSet()
}

func (c *Connection) checkOpen(op string) error {
	if c.State() != StateOpen {
		return apterr.New(apterr.InvalidState, op)
	}
	return nil
}

// Close transitions to Closing, sends HW_STOP_UPDATEMSGS, shuts the ordered
// queue (waking the TX worker with EOF), closes the transport (waking the RX
// dispatcher), and joins both workers. Close is idempotent: a second call is a no-op. Closed is
// terminal; Open is never called again on this Connection.
func (c *Connection) Close() error {
	if !c.state.CompareAndSwap(int32(StateOpen), int32(Closing)) {
		if c.State() == Closed {
			return nil
		}
		// Unopened -> Closed directly: nothing to tear down.
		if c.state.CompareAndSwap(int32(Unopened), int32(Closed)) {
			return nil
		}
		return nil
	}

	stop := apt.NewHWStopUpdateMsgs(c.opts.DeviceAddress, c.opts.HostAddress)
	c.writeMu.Lock()
	_, _ = c.transport.Write(stop.Encode())
	c.writeMu.Unlock()

	c.sendMu.Lock()
	close(c.orderedQueue)
	c.sendMu.Unlock()
	err := c.transport.Close()
	c.workers.Wait()
	c.state.Store(int32(Closed))
	return apterr.Wrap(apterr.TransportIO, "aptconn.Close", err)
}
