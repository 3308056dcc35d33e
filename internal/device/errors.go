package device

import "errors"

// Typed failure conditions callers are expected to branch on with errors.Is.
// Parsing anomalies are never errors; only session-state violations and
// device-reported protocol-disabled conditions surface here.
var (
	// ErrNotConnected is returned by any session-dependent operation when
	// no live session exists.
	ErrNotConnected = errors.New("session not established, call Connect first")

	// ErrConnectionFailed is returned when session establishment fails.
	// The underlying cause (auth, network, protocol) is not distinguished.
	ErrConnectionFailed = errors.New("connection failed, check username and password")

	// ErrCDPNotEnabled is returned when the device reports CDP is
	// administratively disabled.
	ErrCDPNotEnabled = errors.New("cdp is not enabled on the switch")

	// ErrLLDPNotEnabled is returned when the device reports LLDP is
	// administratively disabled.
	ErrLLDPNotEnabled = errors.New("lldp is not enabled on the switch")

	// ErrNotSupported is returned by device variants whose discovery
	// support has not been implemented yet.
	ErrNotSupported = errors.New("operation not supported for this device type")
)
