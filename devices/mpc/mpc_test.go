package mpc

import (
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/aptconn"
)

// scriptedDevice answers HW_STOP_UPDATEMSGS and HW_REQ_INFO like a real
// controller boots, and otherwise calls handle for the test to script
// MPC-specific responses (channel-enable confirmation, move completion).
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
		case apt.HWStopUpdateMsgs:
			continue
		case apt.HWReqInfo:
			reply := apt.NewHWGetInfo(apt.HostController, apt.GenericUSB, 1, "MPC320", 0, apt.FirmwareVersion{}, 0, 0, 3)
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

	ctrl := New(conn, MPC320)
	return ctrl, conn, deviceConn
}

// enableConfirmingDevice replies to MOD_SET_CHANENABLESTATE with the
// GET_USTATUSUPDATE-based confirmation the real interlock relies on, and
// never answers anything else (so poller noise is silently dropped).
func enableConfirmingDevice(enabled *bool) func(net.Conn, apt.Message) {
	return func(conn net.Conn, msg apt.Message) {
		set, ok := msg.(apt.ModSetChanEnableState)
		if !ok {
			return
		}
		*enabled = set.ChanIdent != 0
		reply := apt.NewMotGetUStatusUpdate(apt.HostController, apt.GenericUSB, apt.UStatus{
			ChanIdent: apt.Channel1,
			Status:    enableStatusBits(*enabled),
		})
		_, _ = conn.Write(reply.Encode())
	}
}

func enableStatusBits(enabled bool) apt.StatusBits {
	if enabled {
		return apt.StatusBits(1 << 31)
	}
	return 0
}

func TestSetChannelEnabledConfirmsViaUStatus(t *testing.T) {
	var enabled bool
	ctrl, conn, deviceConn := newTestController(t, enableConfirmingDevice(&enabled))
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	require.NoError(t, ctrl.SetChannelEnabled(apt.Channel1, true))
	require.True(t, enabled)

	require.NoError(t, ctrl.SetChannelEnabled(apt.Channel1, false))
	require.False(t, enabled)
}

func TestSetChannelEnabledRejectsUnknownChanIdentBits(t *testing.T) {
	ctrl, conn, deviceConn := newTestController(t, func(net.Conn, apt.Message) {})
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	err := ctrl.SetChannelEnabled(apt.ChanIdent(0x10), true)
	require.Error(t, err)
}

func TestMoveAbsoluteRejectsOutOfRangeAngle(t *testing.T) {
	ctrl, conn, deviceConn := newTestController(t, func(net.Conn, apt.Message) {})
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	err := ctrl.MoveAbsolute(apt.Channel1, 170.5)
	require.Error(t, err)

	err = ctrl.MoveAbsolute(apt.Channel1, -1)
	require.Error(t, err)
}

func TestMoveAbsoluteHappyPath(t *testing.T) {
	handle := func(conn net.Conn, msg apt.Message) {
		switch got := msg.(type) {
		case apt.ModSetChanEnableState:
			enabled := got.ChanIdent != 0
			reply := apt.NewMotGetUStatusUpdate(apt.HostController, apt.GenericUSB, apt.UStatus{
				ChanIdent: apt.Channel1,
				Status:    enableStatusBits(enabled),
			})
			_, _ = conn.Write(reply.Encode())
		case apt.MotMoveAbsolute:
			matched := apt.NewMotGetUStatusUpdate(apt.HostController, apt.GenericUSB, apt.UStatus{
				ChanIdent:     apt.Channel1,
				PositionSteps: got.PositionSteps,
				Status:        enableStatusBits(true),
			})
			_, _ = conn.Write(matched.Encode())
		}
	}

	ctrl, conn, deviceConn := newTestController(t, handle)
	defer deviceConn.Close()
	defer ctrl.Close()
	defer conn.Close()

	require.NoError(t, ctrl.MoveAbsolute(apt.Channel1, 85))
}
