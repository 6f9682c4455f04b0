package aptconn

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
)

// SendUnordered acquires the write lock directly and writes msg, bypassing
// the ordered queue. Used by pollers to interleave status requests while an
// ordered reply-expecting call is in flight.
func (c *Connection) SendUnordered(msg apt.Message) error {
	const op = "aptconn.SendUnordered"
	if err := c.checkOpen(op); err != nil {
		return err
	}
	c.opts.Log.WithFields(logrus.Fields{"event": EventTXMessageUnordered}).Debug("aptconn: sending unordered message")
	if c.opts.Metrics != nil {
		c.opts.Metrics.TXUnordered.Inc()
	}
	c.writeMu.Lock()
	_, err := c.transport.Write(msg.Encode())
	c.writeMu.Unlock()
	return apterr.Wrap(apterr.TransportIO, op, err)
}

// SendNoReply enqueues msg on the ordered queue and returns immediately.
func (c *Connection) SendNoReply(msg apt.Message) error {
	const op = "aptconn.SendNoReply"
	if err := c.checkOpen(op); err != nil {
		return err
	}
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.State() != StateOpen {
		return apterr.New(apterr.InvalidState, op)
	}
	c.orderedQueue <- orderedItem{msg: msg}
	return nil
}

// SendExpectReply enqueues msg on the ordered queue together with matcher
// and blocks until a received message satisfies matcher, or the connection's
// ReplyDeadline elapses.
func (c *Connection) SendExpectReply(msg apt.Message, matcher func(apt.Message) bool) (apt.Message, error) {
	const op = "aptconn.SendExpectReply"
	if err := c.checkOpen(op); err != nil {
		return nil, err
	}
	reply := make(chan apt.Message, 1)
	c.sendMu.RLock()
	if c.State() != StateOpen {
		c.sendMu.RUnlock()
		return nil, apterr.New(apterr.InvalidState, op)
	}
	c.orderedQueue <- orderedItem{msg: msg, matcher: matcher, reply: reply}
	c.sendMu.RUnlock()
	m, ok := <-reply
	if !ok || m == nil {
		return nil, apterr.New(apterr.Timeout, op)
	}
	return m, nil
}

// RxSubscribe registers a fresh inbox that receives every known message
// decoded by the RX dispatcher from this point forward, and returns it
// along with a release function that must be called on every exit path.
func (c *Connection) RxSubscribe() (msgs <-chan apt.Message, release func()) {
	box := newInbox()
	id := c.subscribe(box)
	return box.ch, func() { c.unsubscribe(id) }
}

// RestoreFactorySettings is a thin fire-and-forget wrapper around
// MGMSG_RESTOREFACTORYSETTINGS.
func (c *Connection) RestoreFactorySettings(dest apt.Address) error {
	return c.SendNoReply(apt.NewRestoreFactorySettings(dest, c.opts.HostAddress))
}

// HostAddress and DeviceAddress expose the addressing this Connection was
// opened with, for device controllers that need to build messages.
func (c *Connection) HostAddress() apt.Address   { return c.opts.HostAddress }
func (c *Connection) DeviceAddress() apt.Address { return c.opts.DeviceAddress }

// ChannelEnabled performs a MOD_REQ_CHANENABLESTATE / MOD_GET_CHANENABLESTATE
// round trip for chan and reports whether it is currently enabled. This is a
// diagnostic helper; the MPC safety interlock (§4.4.1) confirms enable state
// via GET_USTATUSUPDATE instead, not this call.
func (c *Connection) ChannelEnabled(chanIdent apt.ChanIdent) (bool, error) {
	const op = "aptconn.ChannelEnabled"
	if !chanIdent.Valid() {
		return false, apterr.Wrap(apterr.InvalidArgument, op, fmt.Errorf("channel identifier 0x%x carries unknown bits", uint16(chanIdent)))
	}
	req := apt.NewModReqChanEnableState(c.opts.DeviceAddress, c.opts.HostAddress, chanIdent)
	reply, err := c.SendExpectReply(req, func(m apt.Message) bool {
		got, ok := m.(apt.ModGetChanEnableState)
		return ok && got.ChanIdent == chanIdent
	})
	if err != nil {
		return false, err
	}
	return reply.(apt.ModGetChanEnableState).EnableState == apt.Enabled, nil
}
