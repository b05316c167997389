// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between simd and its clients. These types serve as
// documentation for the event schema; the event bus broadcasts them as
// plain JSON so any client can consume them without a matching Go type.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat          EventType = "heartbeat"
	EventStateTransition    EventType = "state"
	EventAntennaState       EventType = "antenna_state_changed"
	EventAntennaFault       EventType = "antenna_fault"
	EventAntennaLocked      EventType = "antenna_locked"
	EventTxError            EventType = "tx_error"
	EventSatelliteHealth    EventType = "satellite_health_changed"
	EventInterference       EventType = "interference"
	EventReceiverStatus     EventType = "receiver_status"
	EventLog                EventType = "log"
)

// Phase identifies which stage of the tick loop emitted an event, matching
// the UPDATE/DRAW/SYNC phase split the frontend uses to batch redraws.
type Phase string

const (
	PhaseUpdate Phase = "UPDATE"
	PhaseDraw   Phase = "DRAW"
	PhaseSync   Phase = "SYNC"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type  EventType `json:"type"`
	Phase Phase     `json:"phase"`
	TS    string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Stamped is satisfied by every event type below, via their embedded
// Event. The bus uses it to fill in TS/Phase uniformly before publishing.
type Stamped interface {
	Stamp(phase Phase)
}

// Stamp sets the event's timestamp to now and records which tick-loop
// phase produced it.
func (e *Event) Stamp(phase Phase) {
	e.TS = NowTS()
	e.Phase = phase
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	TickCount     int64  `json:"tick_count"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. BOOTING -> RUNNING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// AntennaStateChanged re-emits an antenna's full observable state whenever
// a handler changes it: tracking mode, pointing, lock, power.
type AntennaStateChanged struct {
	Event
	AntennaID    string  `json:"antenna_id"`
	TrackingMode string  `json:"tracking_mode"`
	Azimuth      float64 `json:"azimuth"`
	Elevation    float64 `json:"elevation"`
	IsLocked     bool    `json:"is_locked"`
	IsPowered    bool    `json:"is_powered"`
}

// AntennaFault is emitted when an antenna raises a fault (e.g. an
// out-of-range apply_changes request).
type AntennaFault struct {
	Event
	AntennaID string `json:"antenna_id"`
	Message   string `json:"message"`
}

// AntennaLocked is emitted whenever an antenna's lock state changes.
type AntennaLocked struct {
	Event
	AntennaID string `json:"antenna_id"`
	Locked    bool   `json:"locked"`
}

// TxError is emitted when a transmitter modem operation fails, most often
// an aggregate power-budget violation.
type TxError struct {
	Event
	Unit    int    `json:"unit"`
	Modem   int    `json:"modem"`
	Message string `json:"message"`
}

// SatelliteHealthChanged is emitted on every tick in which a satellite's
// health value changes.
type SatelliteHealthChanged struct {
	Event
	NoradID int     `json:"norad_id"`
	Health  float64 `json:"health"`
}

// InterferenceEvent reports a blocking or degrading interference verdict
// between two carriers sharing spectrum at a receiving antenna.
type InterferenceEvent struct {
	Event
	AntennaID      string  `json:"antenna_id"`
	WantedID       string  `json:"wanted_signal_id"`
	InterfererID   string  `json:"interferer_signal_id"`
	CIRatioDB      float64 `json:"ci_ratio_db"`
	OverlapPercent float64 `json:"overlap_percent"`
	Blocked        bool    `json:"blocked"`
	Degraded       bool    `json:"degraded"`
}

// ReceiverStatusEvent reports a receiver's per-signal classification.
type ReceiverStatusEvent struct {
	Event
	AntennaID string `json:"antenna_id"`
	SignalID  string `json:"signal_id"`
	Status    string `json:"status"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}
