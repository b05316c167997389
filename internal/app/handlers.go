package app

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/config"
	"github.com/satellabs/ewrange/internal/engine"
	"github.com/satellabs/ewrange/internal/satellite"
	"github.com/satellabs/ewrange/internal/transmitter"
	"github.com/satellabs/ewrange/internal/units"
)

// handleAntenna serves GET /api/antennas/{id} and accepts a handful of
// operator actions via POST /api/antennas/{id}/{action}.
func (a *App) handleAntenna(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/antennas/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	ant := a.engine.Antenna(id)
	if ant == nil {
		jsonError(w, "no such antenna: "+id, http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, antennaView(ant))
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch parts[1] {
	case "power":
		var body struct {
			On bool `json:"on"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		ant.State.SetPowered(body.On)
	case "tracking_mode":
		var body struct {
			Mode string `json:"mode"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		ant.State.SetTrackingMode(antenna.TrackingMode(body.Mode), a.engine.Queue(), a.engine.NowMs())
	case "target":
		var body struct {
			NoradID int `json:"norad_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		ant.State.TargetSatelliteID = body.NoradID
	case "stage":
		var body struct {
			Azimuth      *float64 `json:"azimuth"`
			Elevation    *float64 `json:"elevation"`
			Polarization *float64 `json:"polarization"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Azimuth != nil && body.Elevation != nil {
			ant.State.StageAzEl(units.Degrees(*body.Azimuth), units.Degrees(*body.Elevation))
		}
		if body.Polarization != nil {
			ant.State.StagePolarization(units.Degrees(*body.Polarization))
		}
	case "apply":
		ant.State.ApplyChanges()
	case "discard":
		ant.State.DiscardStaged()
	case "auto_track":
		var body struct {
			On bool `json:"on"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		satAz, satEl, carrierDBm, haveCarrier := a.engine.StrongestCarrierNear(ant.State.NormalizedAzimuth(), ant.State.Elevation)
		ant.State.ToggleAutoTrack(body.On, a.engine.Queue(), a.engine.NowMs(), satAz, satEl, carrierDBm, haveCarrier)
	default:
		jsonError(w, "unknown antenna action: "+parts[1], http.StatusNotFound)
		return
	}
	writeJSON(w, antennaView(ant))
}

// handleTransmitter serves GET /api/transmitters/{unit} and POST actions
// against one of its four modems.
func (a *App) handleTransmitter(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/transmitters/")
	parts := strings.SplitN(rest, "/", 2)
	unit, err := strconv.Atoi(parts[0])
	if err != nil {
		jsonError(w, "invalid transmitter unit", http.StatusBadRequest)
		return
	}
	tx := a.engine.Transmitter(unit)
	if tx == nil {
		jsonError(w, "no such transmitter unit", http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, transmitterView(tx))
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sub := strings.SplitN(parts[1], "/", 2)
	modemN, err := strconv.Atoi(sub[0])
	if err != nil || len(sub) != 2 {
		jsonError(w, "expected /api/transmitters/{unit}/{modem}/{action}", http.StatusBadRequest)
		return
	}

	switch sub[1] {
	case "power":
		var body struct {
			On bool `json:"on"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		tx.TogglePower(modemN, body.On)
	case "transmit":
		tx.ToggleTransmit(modemN)
	case "fault_reset":
		tx.ToggleFaultReset(modemN)
	case "config":
		var body transmitter.ModemConfig
		if !decodeBody(w, r, &body) {
			return
		}
		tx.ApplyChanges(modemN, body)
	default:
		jsonError(w, "unknown modem action: "+sub[1], http.StatusNotFound)
		return
	}
	writeJSON(w, transmitterView(tx))
}

func antennaView(ant *antenna.Core) map[string]any {
	s := ant.State
	return map[string]any{
		"uuid":          s.UUID,
		"team_id":       s.TeamID,
		"is_powered":    s.IsPowered,
		"is_locked":     s.IsLocked,
		"tracking_mode": s.TrackingMode,
		"azimuth":       s.Azimuth,
		"elevation":     s.Elevation,
		"polarization":  s.Polarization,
		"target_norad":  s.TargetSatelliteID,
		"fault":         s.Fault,
		"metrics":       s.RFMetrics,
	}
}

func transmitterView(tx *transmitter.State) map[string]any {
	modems := make([]map[string]any, 0, len(tx.Modems))
	for _, m := range tx.Modems {
		modems = append(modems, map[string]any{
			"modem":           m.ModemNumber,
			"antenna_id":      m.AntennaID,
			"is_powered":      m.IsPowered,
			"is_transmitting": m.IsTransmitting,
			"is_faulted":      m.IsFaulted,
			"config":          m.Config,
		})
	}
	return map[string]any{
		"unit":   tx.Unit,
		"modems": modems,
	}
}

// seedFromConfig builds the engine's antenna/transmitter/satellite
// registries from an explicitly loaded scenario configuration, used
// whenever the config file supplies its own sections instead of relying
// on the built-in demo scenario.
func seedFromConfig(e *engine.Engine, cfg config.Config) {
	for _, ac := range cfg.Antennas {
		acfg, ok := antenna.ConfigByName(ac.Preset)
		if !ok {
			acfg = antenna.Catalog["C_BAND_9M_VORTEK"]
		}
		core := e.AddAntenna(ac.ID, ac.TeamID, ac.ServerID, acfg)
		core.State.Azimuth = units.Degrees(ac.InitialAzimuth)
		core.State.Elevation = units.Degrees(ac.InitialElevation)
	}
	for _, tc := range cfg.Transmitters {
		e.AddTransmitter(tc.Unit, tc.TeamID, tc.ServerID)
	}
	for _, sc := range cfg.Satellites {
		sat := satellite.New(sc.NoradID, units.Degrees(sc.Azimuth), units.Degrees(sc.Elevation), units.Hz(sc.FrequencyOffsetHz))
		for _, tp := range sc.Transponders {
			sat.AddTransponder(&satellite.Transponder{
				ID:              tp.ID,
				UplinkFreq:      units.Hz(tp.UplinkFreqHz),
				DownlinkFreq:    units.Hz(tp.DownlinkFreqHz),
				Bandwidth:       units.Hz(tp.BandwidthHz),
				MaxPower:        units.DBm(tp.MaxPowerDBm),
				Gain:            units.DBi(tp.GainDBi),
				NoiseFigure:     units.DB(tp.NoiseFigureDB),
				SaturationPower: units.DBm(tp.SaturationPowerDBm),
				Active:          true,
			})
		}
		e.AddSatellite(sat)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func readAll(r *http.Request) (json.RawMessage, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeCommandResult(w http.ResponseWriter, res engine.CommandResult) {
	code := http.StatusOK
	if !res.OK {
		code = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(res)
}
