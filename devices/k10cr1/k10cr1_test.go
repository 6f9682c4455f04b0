package k10cr1

import (
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/aptconn"
)

func scriptedDevice(t *testing.T, conn net.Conn, handle func(net.Conn, apt.Message)) {
	t.Helper()
	for {
		h, payload, err := apt.ReadFrame(conn)
		if err != nil {
			return
		}
		msg, err := apt.Decode(h, payload)
		if err != nil {
			continue
		}
		switch msg.(type) {
		case apt.HWStopUpdateMsgs, apt.HWStartUpdateMsgs, apt.ModSetChanEnableState:
			// K10CR1 answers neither: HW_STOP/START_UPDATEMSGS are
			// fire-and-forget, and chan-enable gets no reply at all.
			continue
		case apt.HWReqInfo:
			reply := apt.NewHWGetInfo(apt.HostController, apt.GenericUSB, 2, "K10CR1", 0, apt.FirmwareVersion{}, 0, 0, 1)
			_, _ = conn.Write(reply.Encode())
		default:
			handle(conn, msg)
		}
	}
}

func newTestController(t *testing.T, handle func(net.Conn, apt.Message)) (*Controller, *aptconn.Connection, net.Conn) {
	t.Helper()
	hostConn, deviceConn := net.Pipe()
	go scriptedDevice(t, deviceConn, handle)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	conn, err := aptconn.Open(hostConn, &aptconn.Options{
		Log:           log,
		SettleDelay:   time.Millisecond,
		ReplyDeadline: 2 * time.Second,
	})
	require.NoError(t, err)

	ctrl := New(conn)
	return ctrl, conn, deviceConn
}

func TestMoveAbsoluteHappyPath(t *testing.T) {
	var sent apt.MotMoveAbsolute
	handle := func(conn net.Conn, msg apt.Message) {
		move, ok := msg.(apt.MotMoveAbsolute)
		if !ok {
			return
		}
		sent = move
		reply := apt.NewMotMoveCompletedLong(apt.HostController, apt.GenericUSB, apt.UStatus{
			ChanIdent:     apt.Channel1,
			PositionSteps: move.PositionSteps,
		}, move.PositionSteps)
		_, _ = conn.Write(reply.Encode())
	}

	ctrl, conn, deviceConn := newTestController(t, handle)
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	require.NoError(t, ctrl.MoveAbsolute(90))
	require.InDelta(t, 90.0*136533, float64(sent.PositionSteps), 1)
}

func TestMoveAbsoluteRejectsOutOfRangeAngle(t *testing.T) {
	ctrl, conn, deviceConn := newTestController(t, func(net.Conn, apt.Message) {})
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	require.Error(t, ctrl.MoveAbsolute(360))
	require.Error(t, ctrl.MoveAbsolute(-5))
}
