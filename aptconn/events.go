package aptconn

// Event names the structured log vocabulary emitted by the connection core.
// Sinks are a caller concern (the logrus.Logger passed to Open); this package
// only ever sets the "event" field to one of these values.
type Event string

const (
	EventRXMessageKnown           Event = "RX_MESSAGE_KNOWN"
	EventRXMessageUnknown         Event = "RX_MESSAGE_UNKNOWN"
	EventRXMessageMalformed       Event = "RX_MESSAGE_MALFORMED"
	EventTXMessageOrdered         Event = "TX_MESSAGE_ORDERED"
	EventTXMessageUnordered       Event = "TX_MESSAGE_UNORDERED"
	EventUncaughtException        Event = "UNCAUGHT_EXCEPTION"
	EventDeviceConnected          Event = "DEVICE_CONNECTED"
	EventDeviceNotConnectedError  Event = "DEVICE_NOT_CONNECTED_ERROR"
	EventSwitchBarState           Event = "SWITCH_BAR_STATE"
	EventSwitchCrossState         Event = "SWITCH_CROSS_STATE"
)
