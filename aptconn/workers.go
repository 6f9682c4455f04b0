package aptconn

import (
	"errors"
	"io"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
)

// rxDispatch is the single RX dispatcher worker (§4.3.1): read exactly 6
// bytes, decode the header, read the payload if one follows, fully decode
// known messages and fan them out, log and discard unknown ones. Transport
// read errors terminate the loop; during Closing this is expected (the
// transport was closed to wake this very read), and it and io.EOF are logged
// at Debug; any other read error is logged as uncaught.
func (c *Connection) rxDispatch() {
	defer c.workers.Done()
	for {
		h, payload, err := apt.ReadFrame(c.transport)
		if err != nil {
			if c.State() == Closing || c.State() == Closed || errors.Is(err, io.EOF) {
				c.opts.Log.Debug("aptconn: rx dispatcher exiting on closed transport")
			} else {
				c.opts.Log.WithFields(logrus.Fields{"event": EventUncaughtException}).WithError(err).Error("aptconn: rx dispatcher read failed")
			}
			return
		}

		msg, err := apt.Decode(h, payload)
		if err != nil {
			if apterr.Is(err, apterr.UnknownMessage) {
				c.opts.Log.WithFields(logrus.Fields{
					"event":      EventRXMessageUnknown,
					"message_id": h.ID,
				}).Debug("aptconn: unknown message, discarding")
			} else {
				c.opts.Log.WithFields(logrus.Fields{
					"event":      EventRXMessageMalformed,
					"message_id": h.ID,
				}).WithError(err).Warn("aptconn: malformed message, discarding")
			}
			c.metricsRXUnknown()
			continue
		}

		c.opts.Log.WithFields(logrus.Fields{
			"event": EventRXMessageKnown,
		}).Debug("aptconn: received message")
		c.metricsRXKnown()

		c.subMu.Lock()
		for _, box := range c.subs {
			box.deliver(msg)
		}
		c.subMu.Unlock()
	}
}

// txOrderedSend is the single TX ordered sender worker (§4.3.2).
func (c *Connection) txOrderedSend() {
	defer c.workers.Done()
	for item := range c.orderedQueue {
		c.opts.Log.WithFields(logrus.Fields{"event": EventTXMessageOrdered}).Debug("aptconn: sending ordered message")
		if c.opts.Metrics != nil {
			c.opts.Metrics.TXOrdered.Inc()
		}

		if item.matcher == nil {
			c.writeMu.Lock()
			_, err := c.transport.Write(item.msg.Encode())
			time.Sleep(orderedSettleDelay)
			c.writeMu.Unlock()
			if err != nil {
				c.opts.Log.WithError(err).Warn("aptconn: ordered write failed")
			}
			continue
		}

		box := newInbox()
		id := c.subscribe(box)

		c.writeMu.Lock()
		_, err := c.transport.Write(item.msg.Encode())
		c.writeMu.Unlock()
		if err != nil {
			c.unsubscribe(id)
			c.opts.Log.WithError(err).Warn("aptconn: ordered write failed")
			close(item.reply)
			continue
		}

		c.awaitReply.Set()
		checkDeadline := apterr.WithDeadline(c.opts.ReplyDeadline)
		var matched apt.Message
		for checkDeadline() {
			m, ok := box.recv(100 * time.Millisecond)
			if !ok {
				continue
			}
			if item.matcher(m) {
				matched = m
				break
			}
		}
		c.awaitReply.Clear()
		c.unsubscribe(id)

		if matched == nil {
			c.metricsTimeout()
			close(item.reply)
			continue
		}
		item.reply <- matched
	}
}

func (c *Connection) subscribe(box *inbox) xid.ID {
	id := xid.New()
	c.subMu.Lock()
	c.subs[id] = box
	c.subMu.Unlock()
	return id
}

func (c *Connection) unsubscribe(id xid.ID) {
	c.subMu.Lock()
	delete(c.subs, id)
	c.subMu.Unlock()
}
