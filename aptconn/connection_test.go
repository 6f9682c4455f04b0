package aptconn

import (
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/daedaluz/thorapt/apt"
	"github.com/daedaluz/thorapt/apterr"
)

// fakeDevice answers HW_STOP_UPDATEMSGS silently and HW_REQ_INFO with a
// canned HW_GET_INFO, then hands every other decoded frame to onMessage for
// the test to script further scenarios. It exits when conn's read fails
// (the host side closing the pipe).
func fakeDevice(t *testing.T, conn net.Conn, onMessage func(apt.Message)) {
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
			reply := newHWGetInfoReply()
			_, _ = conn.Write(reply.Encode())
		default:
			if onMessage != nil {
				onMessage(msg)
			}
		}
	}
}

func newHWGetInfoReply() apt.HWGetInfo {
	return apt.NewHWGetInfo(apt.HostController, apt.GenericUSB, 123456, "MPC320", 44,
		apt.FirmwareVersion{Major: 1, Interim: 0, Minor: 0}, 1, 0, 3)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func openTestConnection(t *testing.T, onMessage func(apt.Message)) (*Connection, net.Conn) {
	t.Helper()
	hostConn, deviceConn := net.Pipe()
	go fakeDevice(t, deviceConn, onMessage)

	conn, err := Open(hostConn, &Options{
		Log:           testLogger(),
		SettleDelay:   time.Millisecond,
		ReplyDeadline: 2 * time.Second,
	})
	require.NoError(t, err)
	return conn, deviceConn
}

func TestOpenPopulatesInfo(t *testing.T) {
	conn, deviceConn := openTestConnection(t, nil)
	defer deviceConn.Close()
	defer conn.Close()

	require.Equal(t, StateOpen, conn.State())
	info := conn.Info()
	require.NotNil(t, info)
	require.EqualValues(t, 123456, info.SerialNumber)
	require.Equal(t, "MPC320", info.ModelNumber)
}

func TestSendExpectReplyMatchesResponse(t *testing.T) {
	conn, deviceConn := openTestConnection(t, func(msg apt.Message) {
		req, ok := msg.(apt.MotReqUStatusUpdate)
		if !ok {
			return
		}
		reply := apt.NewMotGetUStatusUpdate(apt.HostController, apt.GenericUSB, apt.UStatus{
			ChanIdent:     req.ChanIdent,
			PositionSteps: 42,
		})
		_, _ = deviceConn.Write(reply.Encode())
	})
	defer deviceConn.Close()
	defer conn.Close()

	reply, err := conn.SendExpectReply(
		apt.NewMotReqUStatusUpdate(conn.DeviceAddress(), conn.HostAddress(), apt.Channel1),
		func(m apt.Message) bool {
			got, ok := m.(apt.MotGetUStatusUpdate)
			return ok && got.Status.ChanIdent == apt.Channel1
		},
	)
	require.NoError(t, err)
	got, ok := reply.(apt.MotGetUStatusUpdate)
	require.True(t, ok)
	require.EqualValues(t, 42, got.Status.PositionSteps)
}

func TestSendExpectReplyTimesOut(t *testing.T) {
	hostConn, deviceConn := net.Pipe()
	go fakeDevice(t, deviceConn, nil) // never answers anything but HW_REQ_INFO

	conn, err := Open(hostConn, &Options{
		Log:           testLogger(),
		SettleDelay:   time.Millisecond,
		ReplyDeadline: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer deviceConn.Close()
	defer conn.Close()

	_, err = conn.SendExpectReply(
		apt.NewMotReqUStatusUpdate(conn.DeviceAddress(), conn.HostAddress(), apt.Channel1),
		func(m apt.Message) bool { return false },
	)
	require.Error(t, err)
	require.True(t, apterr.Is(err, apterr.Timeout))
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, deviceConn := openTestConnection(t, nil)
	defer deviceConn.Close()

	require.NoError(t, conn.Close())
	require.Equal(t, Closed, conn.State())
	require.NoError(t, conn.Close())

	err := conn.SendNoReply(apt.NewHWDisconnect(conn.DeviceAddress(), conn.HostAddress()))
	require.Error(t, err)
	require.True(t, apterr.Is(err, apterr.InvalidState))
}

func TestRxSubscribeReceivesUnsolicited(t *testing.T) {
	conn, deviceConn := openTestConnection(t, nil)
	defer deviceConn.Close()
	defer conn.Close()

	msgs, release := conn.RxSubscribe()
	defer release()

	homed := apt.NewMotMoveHomed(apt.HostController, apt.GenericUSB, apt.Channel1)
	_, err := deviceConn.Write(homed.Encode())
	require.NoError(t, err)

	select {
	case m := <-msgs:
		got, ok := m.(apt.MotMoveHomed)
		require.True(t, ok)
		require.Equal(t, apt.Channel1, got.ChanIdent)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscribed message")
	}
}
