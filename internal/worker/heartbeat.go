package worker

import "github.com/coreos/go-systemd/v22/daemon"

// Heartbeat signals liveness to a process supervisor. The consumer beats
// once per poll iteration. Failures are swallowed by contract: absence of
// a supervisor is not a fault.
type Heartbeat interface {
	Beat()
}

// SystemdHeartbeat pets the systemd watchdog over the notify socket.
type SystemdHeartbeat struct{}

func (SystemdHeartbeat) Beat() {
	// SdNotify is a no-op without NOTIFY_SOCKET; either way nothing to do
	// with the result.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
}

// NopHeartbeat discards beats. Used when running outside a supervisor.
type NopHeartbeat struct{}

func (NopHeartbeat) Beat() {}
