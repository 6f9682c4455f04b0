// Package k10cr1 implements the device-controller layer (C4) for the
// Thorlabs K10CR1 motorized rotary waveplate mount: a single-channel stage
// whose MOVE_ABSOLUTE completion arrives as the 20-byte MOT_MOVE_COMPLETED
// shape carrying an absolute encoder count, and whose channel-enable toggle
// is fire-and-forget rather than interlock-confirmed.
package k10cr1

import (
	"fmt"
	"time"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
	"github.com/daedaluz/thorapt/aptconn"
)

// stepsPerDegree is K10CR1's absolute encoder resolution: 136533 steps per
// degree, not a fraction of a full revolution.
const stepsPerDegree = 136533

var chanIdent = apt.Channel1

// Controller is one K10CR1 device bound to a Connection. It is
// lifecycle-bound to its Connection: Close stops the polling worker but
// does not close the Connection, which may be shared with other
// controllers.
type Controller struct {
	conn *aptconn.Connection

	pollStop chan struct{}
	pollDone chan struct{}
}

// New constructs a Controller over an already-open Connection, arms the
// device's auto-push status stream with HW_START_UPDATEMSGS, and starts the
// status-polling worker.
func New(conn *aptconn.Connection) *Controller {
	c := &Controller{
		conn:     conn,
		pollStop: make(chan struct{}),
		pollDone: make(chan struct{}),
	}
	_ = c.conn.SendNoReply(apt.NewHWStartUpdateMsgs(c.dest(), c.src()))
	go c.poll()
	return c
}

// Close stops the polling worker and waits for it to exit.
func (c *Controller) Close() {
	close(c.pollStop)
	<-c.pollDone
}

func (c *Controller) dest() apt.Address { return c.conn.DeviceAddress() }
func (c *Controller) src() apt.Address  { return c.conn.HostAddress() }

// poll is the TX poller worker: request a status update for the device's
// one channel, keep the auto-push channel alive with an ack, then sleep on
// an adaptive cadence driven by whether the ordered sender is mid-wait.
func (c *Controller) poll() {
	defer close(c.pollDone)
	for {
		select {
		case <-c.pollStop:
			return
		default:
		}
		_ = c.conn.SendUnordered(apt.NewMotReqUStatusUpdate(c.dest(), c.src(), chanIdent))
		_ = c.conn.SendUnordered(apt.NewMotAckUStatusUpdate(c.dest(), c.src()))

		select {
		case <-c.pollStop:
			return
		case <-time.After(c.cadence()):
		}
	}
}

func (c *Controller) cadence() time.Duration {
	if c.conn.AwaitingReply() {
		return 200 * time.Millisecond
	}
	return 1 * time.Second
}

func stepsToDegrees(steps int32) float64 {
	return float64(steps) / stepsPerDegree
}

func degreesToSteps(deg float64) int32 {
	return int32(deg*stepsPerDegree + 0.5)
}

// SetChannelEnabled is a fire-and-forget MOD_SET_CHANENABLESTATE: K10CR1
// does not answer this command, unlike MPC320/MPC220, so there is no
// interlock confirmation to wait for here. Disabling is expressed on the
// wire as a zero channel bitmask.
func (c *Controller) SetChannelEnabled(enabled bool) error {
	bitmask := chanIdent
	if !enabled {
		bitmask = 0
	}
	return c.conn.SendNoReply(apt.NewModSetChanEnableState(c.dest(), c.src(), bitmask, apt.Enabled))
}

// MoveAbsolute converts angleDegrees to device steps, enables the channel,
// sends MOVE_ABSOLUTE, and awaits the 20-byte MOT_MOVE_COMPLETED carrying a
// matching channel and position, then disables the channel.
func (c *Controller) MoveAbsolute(angleDegrees float64) error {
	const op = "k10cr1.MoveAbsolute"
	if angleDegrees < 0 || angleDegrees >= 360 {
		return apterr.Wrap(apterr.InvalidArgument, op, fmt.Errorf("angle %.3f degrees out of range [0, 360)", angleDegrees))
	}
	steps := degreesToSteps(angleDegrees)

	if err := c.SetChannelEnabled(true); err != nil {
		return err
	}
	defer c.SetChannelEnabled(false)

	_, err := c.conn.SendExpectReply(apt.NewMotMoveAbsolute(c.dest(), c.src(), chanIdent, steps), func(m apt.Message) bool {
		got, ok := m.(apt.MotMoveCompletedLong)
		return ok && got.Dest() == c.src() && got.Src() == c.dest() &&
			got.Status.ChanIdent == chanIdent && got.Status.PositionSteps == steps
	})
	return err
}

// GetStatus sends REQ_USTATUSUPDATE and awaits the matching reply.
func (c *Controller) GetStatus() (apt.UStatus, error) {
	reply, err := c.conn.SendExpectReply(apt.NewMotReqUStatusUpdate(c.dest(), c.src(), chanIdent), func(m apt.Message) bool {
		got, ok := m.(apt.MotGetUStatusUpdate)
		return ok && got.Status.ChanIdent == chanIdent
	})
	if err != nil {
		return apt.UStatus{}, err
	}
	return reply.(apt.MotGetUStatusUpdate).Status, nil
}

// PositionDegrees reads the current position and converts it from device
// steps to the physical angle.
func (c *Controller) PositionDegrees() (float64, error) {
	status, err := c.GetStatus()
	if err != nil {
		return 0, err
	}
	return stepsToDegrees(status.PositionSteps), nil
}

// Home enables the channel, sends MOVE_HOME, awaits MOVE_HOMED, then
// disables the channel.
func (c *Controller) Home() error {
	if err := c.SetChannelEnabled(true); err != nil {
		return err
	}
	defer c.SetChannelEnabled(false)

	_, err := c.conn.SendExpectReply(apt.NewMotMoveHome(c.dest(), c.src(), chanIdent), func(m apt.Message) bool {
		got, ok := m.(apt.MotMoveHomed)
		return ok && got.ChanIdent == chanIdent
	})
	return err
}

// Stop sends MOVE_STOP in profiled mode and awaits the resulting
// MOVE_STOPPED status.
func (c *Controller) Stop() (apt.UStatus, error) {
	reply, err := c.conn.SendExpectReply(apt.NewMotMoveStop(c.dest(), c.src(), chanIdent, apt.StopProfiled), func(m apt.Message) bool {
		got, ok := m.(apt.MotMoveStopped)
		return ok && got.Status.ChanIdent == chanIdent
	})
	if err != nil {
		return apt.UStatus{}, err
	}
	return reply.(apt.MotMoveStopped).Status, nil
}
