// Package mpc implements the device-controller layer (C4) for the Thorlabs
// MPC320 and MPC220 motorized polarization-controller paddles: a thin layer
// composing aptconn.Connection primitives into home/identify/move_absolute/
// jog/set_params/get_status, plus the channel-enable safety interlock and
// the background status-polling worker the family requires to keep its
// auto-push channel alive.
package mpc

import (
	"fmt"
	"time"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
	"github.com/daedaluz/thorapt/aptconn"
)

// Family selects which available-channel set a Controller polls and
// validates against.
type Family int

const (
	MPC320 Family = iota
	MPC220
)

// stepRatioNumerator/stepRatioDenominator is the device-steps-per-degree
// ratio for MPC320/MPC220: 170 degrees of travel over 1370 steps.
const (
	stepRatioNumerator   = 1370
	stepRatioDenominator = 170
)

func (f Family) availableChannels() []apt.ChanIdent {
	switch f {
	case MPC220:
		return []apt.ChanIdent{apt.Channel1, apt.Channel2}
	default:
		return []apt.ChanIdent{apt.Channel1, apt.Channel2, apt.Channel3}
	}
}

// Controller is one MPC320/MPC220 device bound to a Connection. It is
// lifecycle-bound to its Connection: Close stops the polling worker but
// does not close the Connection, which may be shared with other
// controllers.
type Controller struct {
	conn      *aptconn.Connection
	available []apt.ChanIdent

	pollStop chan struct{}
	pollDone chan struct{}
}

// New constructs a Controller over an already-open Connection and starts
// its status-polling worker.
func New(conn *aptconn.Connection, family Family) *Controller {
	c := &Controller{
		conn:      conn,
		available: family.availableChannels(),
		pollStop:  make(chan struct{}),
		pollDone:  make(chan struct{}),
	}
	go c.poll()
	return c
}

// Close stops the polling worker and waits for it to exit.
func (c *Controller) Close() {
	close(c.pollStop)
	<-c.pollDone
}

// AvailableChannels returns the channel set this controller's family
// exposes.
func (c *Controller) AvailableChannels() []apt.ChanIdent {
	out := make([]apt.ChanIdent, len(c.available))
	copy(out, c.available)
	return out
}

func (c *Controller) dest() apt.Address { return c.conn.DeviceAddress() }
func (c *Controller) src() apt.Address  { return c.conn.HostAddress() }

// poll is the TX poller worker (§4.4.1): for each available channel request
// a status update, keep the auto-push channel alive with an ack, then sleep
// on an adaptive cadence driven by whether the ordered sender is mid-wait.
func (c *Controller) poll() {
	defer close(c.pollDone)
	for {
		select {
		case <-c.pollStop:
			return
		default:
		}
		for _, chanIdent := range c.available {
			_ = c.conn.SendUnordered(apt.NewMotReqUStatusUpdate(c.dest(), c.src(), chanIdent))
		}
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
	return float64(steps) * float64(stepRatioDenominator) / float64(stepRatioNumerator)
}

func degreesToSteps(deg float64) int32 {
	return int32(deg*float64(stepRatioNumerator)/float64(stepRatioDenominator) + 0.5)
}

// validateChanIdent rejects a caller-supplied channel identifier carrying
// unknown bits, the same "unknown bits reject" rule the wire codec enforces
// on decode.
func validateChanIdent(chanIdent apt.ChanIdent, op string) error {
	if !chanIdent.Valid() {
		return apterr.Wrap(apterr.InvalidArgument, op, fmt.Errorf("channel identifier 0x%x carries unknown bits", uint16(chanIdent)))
	}
	return nil
}

// SetChannelEnabled drives the channel-toggle safety interlock: it sends
// MOD_SET_CHANENABLESTATE and awaits a GET_USTATUSUPDATE whose ENABLED bit
// confirms the requested state, for the named channel. Disabling is
// expressed on the wire as a zero channel bitmask, per the APT convention
// that ChanIdent(0) means "all channels disabled".
func (c *Controller) SetChannelEnabled(chanIdent apt.ChanIdent, enabled bool) error {
	if err := validateChanIdent(chanIdent, "mpc.SetChannelEnabled"); err != nil {
		return err
	}
	bitmask := chanIdent
	if !enabled {
		bitmask = 0
	}
	msg := apt.NewModSetChanEnableState(c.dest(), c.src(), bitmask, apt.Enabled)
	_, err := c.conn.SendExpectReply(msg, func(m apt.Message) bool {
		got, ok := m.(apt.MotGetUStatusUpdate)
		return ok && got.Status.ChanIdent == chanIdent && got.Status.Status.Enabled() == enabled
	})
	return err
}

// Home enables chanIdent, sends MOVE_HOME, awaits MOVE_HOMED, then disables
// the channel.
func (c *Controller) Home(chanIdent apt.ChanIdent) error {
	if err := c.SetChannelEnabled(chanIdent, true); err != nil {
		return err
	}
	defer c.SetChannelEnabled(chanIdent, false)

	_, err := c.conn.SendExpectReply(apt.NewMotMoveHome(c.dest(), c.src(), chanIdent), func(m apt.Message) bool {
		got, ok := m.(apt.MotMoveHomed)
		return ok && got.ChanIdent == chanIdent
	})
	return err
}

// Identify is a fire-and-forget MOD_IDENTIFY that flashes the device's LED.
func (c *Controller) Identify(chanIdent apt.ChanIdent) error {
	if err := validateChanIdent(chanIdent, "mpc.Identify"); err != nil {
		return err
	}
	return c.conn.SendNoReply(apt.NewModIdentify(c.dest(), c.src(), chanIdent))
}

// MoveAbsolute validates angleDegrees is within [0, 170], enables chanIdent,
// sends MOVE_ABSOLUTE, awaits a matching GET_USTATUSUPDATE, then disables
// the channel.
func (c *Controller) MoveAbsolute(chanIdent apt.ChanIdent, angleDegrees float64) error {
	const op = "mpc.MoveAbsolute"
	if err := validateChanIdent(chanIdent, op); err != nil {
		return err
	}
	if angleDegrees < 0 || angleDegrees > 170 {
		return apterr.Wrap(apterr.InvalidArgument, op, fmt.Errorf("angle %.3f degrees out of range [0, 170]", angleDegrees))
	}
	steps := degreesToSteps(angleDegrees)

	if err := c.SetChannelEnabled(chanIdent, true); err != nil {
		return err
	}
	defer c.SetChannelEnabled(chanIdent, false)

	_, err := c.conn.SendExpectReply(apt.NewMotMoveAbsolute(c.dest(), c.src(), chanIdent, steps), func(m apt.Message) bool {
		got, ok := m.(apt.MotGetUStatusUpdate)
		return ok && got.Status.ChanIdent == chanIdent && got.Status.PositionSteps == steps
	})
	return err
}

// Jog enables chanIdent, sends MOVE_JOG in dir, awaits the header-only
// MOVE_COMPLETED shape this family returns, then disables the channel.
func (c *Controller) Jog(chanIdent apt.ChanIdent, dir apt.JogDirection) error {
	if err := c.SetChannelEnabled(chanIdent, true); err != nil {
		return err
	}
	defer c.SetChannelEnabled(chanIdent, false)

	_, err := c.conn.SendExpectReply(apt.NewMotMoveJog(c.dest(), c.src(), chanIdent, dir), func(m apt.Message) bool {
		got, ok := m.(apt.MotMoveCompletedHeaderOnly)
		return ok && got.Dest() == c.src() && got.ChanIdent == chanIdent
	})
	return err
}

// Params is the host-side view of POL params, with HomePositionSteps
// surfaced as device steps (unit conversion to physical angle is an outer
// concern per spec).
type Params struct {
	Velocity          uint16
	HomePositionSteps uint16
	JogStep1          uint16
	JogStep2          uint16
	JogStep3          uint16
}

// RefreshParams reads the device's current POL params via POL_REQ_PARAMS /
// POL_GET_PARAMS.
func (c *Controller) RefreshParams() (Params, error) {
	reply, err := c.conn.SendExpectReply(apt.NewPolReqParams(c.dest(), c.src()), func(m apt.Message) bool {
		_, ok := m.(apt.PolGetParams)
		return ok
	})
	if err != nil {
		return Params{}, err
	}
	p := reply.(apt.PolGetParams).Params
	return Params{
		Velocity:          p.Velocity,
		HomePositionSteps: p.HomePositionSteps,
		JogStep1:          p.JogStep1,
		JogStep2:          p.JogStep2,
		JogStep3:          p.JogStep3,
	}, nil
}

// SetParams reads the current params, overlays any non-nil field, writes
// the result with POL_SET_PARAMS (fire-and-forget), then waits 1s for the
// device to apply them before returning, matching the device's documented
// settle time for a params write.
func (c *Controller) SetParams(velocity, homePositionSteps, jogStep1, jogStep2, jogStep3 *uint16) error {
	current, err := c.RefreshParams()
	if err != nil {
		return err
	}
	if velocity != nil {
		current.Velocity = clampVelocity(*velocity)
	}
	if homePositionSteps != nil {
		current.HomePositionSteps = *homePositionSteps
	}
	if jogStep1 != nil {
		current.JogStep1 = *jogStep1
	}
	if jogStep2 != nil {
		current.JogStep2 = *jogStep2
	}
	if jogStep3 != nil {
		current.JogStep3 = *jogStep3
	}

	err = c.conn.SendNoReply(apt.NewPolSetParams(c.dest(), c.src(), apt.PolParams{
		Velocity:          current.Velocity,
		HomePositionSteps: current.HomePositionSteps,
		JogStep1:          current.JogStep1,
		JogStep2:          current.JogStep2,
		JogStep3:          current.JogStep3,
	}))
	if err != nil {
		return err
	}
	time.Sleep(1 * time.Second)
	return nil
}

func clampVelocity(v uint16) uint16 {
	if v < 10 {
		return 10
	}
	if v > 100 {
		return 100
	}
	return v
}

// GetStatus sends REQ_USTATUSUPDATE and awaits the matching reply.
func (c *Controller) GetStatus(chanIdent apt.ChanIdent) (apt.UStatus, error) {
	if err := validateChanIdent(chanIdent, "mpc.GetStatus"); err != nil {
		return apt.UStatus{}, err
	}
	reply, err := c.conn.SendExpectReply(apt.NewMotReqUStatusUpdate(c.dest(), c.src(), chanIdent), func(m apt.Message) bool {
		got, ok := m.(apt.MotGetUStatusUpdate)
		return ok && got.Status.ChanIdent == chanIdent
	})
	if err != nil {
		return apt.UStatus{}, err
	}
	return reply.(apt.MotGetUStatusUpdate).Status, nil
}

// ChannelEnabled is a MOD_REQ/GET_CHANENABLESTATE diagnostic round trip,
// distinct from the GET_USTATUSUPDATE-based confirmation SetChannelEnabled
// uses for its safety interlock.
func (c *Controller) ChannelEnabled(chanIdent apt.ChanIdent) (bool, error) {
	if err := validateChanIdent(chanIdent, "mpc.ChannelEnabled"); err != nil {
		return false, err
	}
	return c.conn.ChannelEnabled(chanIdent)
}

// PositionDegrees reads chanIdent's current position and converts it from
// device steps to the physical angle.
func (c *Controller) PositionDegrees(chanIdent apt.ChanIdent) (float64, error) {
	status, err := c.GetStatus(chanIdent)
	if err != nil {
		return 0, err
	}
	return stepsToDegrees(status.PositionSteps), nil
}
