// Package session serializes, validates, and restores the whole
// planner state as a versioned JSON record, and debounces autosaves.
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meshsite/planner/internal/imageio"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/internal/store"
	"github.com/meshsite/planner/pkg/core"
)

// ErrNothingToSave is returned by Serialize when no image is loaded.
var ErrNothingToSave = errors.New("nothing to save")

// Service converts between the live plan state and the persisted
// session record.
type Service struct {
	state  *plan.State
	store  store.Store
	logger *slog.Logger

	durMu        sync.RWMutex
	lastSaveTook time.Duration
}

// NewService creates a session service over the given state and store.
func NewService(state *plan.State, st store.Store, logger *slog.Logger) *Service {
	return &Service{state: state, store: st, logger: logger}
}

// Serialize builds the JSON session record from the current state.
// A session without a loaded image has nothing worth persisting.
func (s *Service) Serialize() ([]byte, error) {
	img := s.state.Image()
	if img == nil {
		return nil, ErrNothingToSave
	}

	nodes := s.state.Nodes()
	waypoints := s.state.Waypoints()
	settings := s.state.Settings()

	rec := Record{
		Version:   FormatVersion,
		SavedAt:   time.Now().UTC(),
		ImageName: img.Name,
		ImageData: base64.StdEncoding.EncodeToString(img.Data),
		Nodes:     make([]RecordNode, 0, len(nodes)),
		Waypoints: make([]RecordWaypoint, 0, len(waypoints)),
	}

	for _, n := range nodes {
		rec.Nodes = append(rec.Nodes, RecordNode{ID: n.ID, X: n.Pos.X, Y: n.Pos.Y, ThresholdM: n.ThresholdM})
	}
	for _, w := range waypoints {
		rec.Waypoints = append(rec.Waypoints, RecordWaypoint{ID: w.ID, X: w.Pos.X, Y: w.Pos.Y, Kind: string(w.Kind)})
	}

	tool := string(settings.ActiveTool)
	rec.Settings = &RecordSettings{
		ActiveTool:        &tool,
		DefaultThresholdM: &settings.DefaultThresholdM,
		ScaleMPerPx:       &settings.ScaleMPerPx,
		ScaleLocked:       &settings.ScaleLocked,
		ShowLinks:         &settings.ShowLinks,
		ShowLabels:        &settings.ShowLabels,
	}

	return json.Marshal(rec)
}

// Validate parses raw bytes into a session record. Any failure, from
// malformed JSON to a version mismatch to a truncated image payload,
// reports no session rather than an error: a bad record and an absent
// record restore the same way.
func (s *Service) Validate(raw []byte) (*Record, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warn("Session record is not valid JSON", "error", err)
		return nil, false
	}

	if rec.Version != FormatVersion {
		s.logger.Warn("Session record version mismatch", "got", rec.Version, "want", FormatVersion)
		return nil, false
	}
	// Records written by Serialize always name their image. Absence
	// means the record was produced by something else; treat it as no
	// session rather than restoring a nameless plan.
	if rec.ImageName == "" {
		s.logger.Warn("Session record has no image name")
		return nil, false
	}
	if len(rec.ImageData) < MinImagePayload {
		s.logger.Warn("Session record image payload too short", "length", len(rec.ImageData))
		return nil, false
	}
	if _, err := base64.StdEncoding.DecodeString(rec.ImageData); err != nil {
		s.logger.Warn("Session record image payload is not base64", "error", err)
		return nil, false
	}

	// The annotation lists must be present, even when empty. A record
	// without them is missing data, not holding an empty plan.
	var lists struct {
		Nodes     json.RawMessage `json:"nodes"`
		Waypoints json.RawMessage `json:"waypoints"`
	}
	if err := json.Unmarshal(raw, &lists); err != nil {
		s.logger.Warn("Session record is not valid JSON", "error", err)
		return nil, false
	}
	if !presentList(lists.Nodes) {
		s.logger.Warn("Session record has no node list")
		return nil, false
	}
	if !presentList(lists.Waypoints) {
		s.logger.Warn("Session record has no waypoint list")
		return nil, false
	}

	return &rec, true
}

// presentList reports whether a raw JSON field was present and not
// null. The element type check already happened when the record was
// unmarshalled.
func presentList(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Restore replaces the whole plan state from raw record bytes. The
// prior state is untouched when the record or its image is invalid.
func (s *Service) Restore(raw []byte) error {
	rec, ok := s.Validate(raw)
	if !ok {
		return fmt.Errorf("invalid session record")
	}

	imgData, err := base64.StdEncoding.DecodeString(rec.ImageData)
	if err != nil {
		return fmt.Errorf("decoding session image payload: %w", err)
	}

	info, err := imageio.Decode(imgData)
	if err != nil {
		return fmt.Errorf("decoding session image: %w", err)
	}

	img := plan.ImageInfo{
		Name:   rec.ImageName,
		Width:  info.Width,
		Height: info.Height,
		Data:   imgData,
	}

	settings := s.restoreSettings(rec.Settings)

	nodes := make([]core.Node, 0, len(rec.Nodes))
	for _, rn := range rec.Nodes {
		n := core.Node{ID: rn.ID, Pos: core.Position{X: rn.X, Y: rn.Y}, ThresholdM: rn.ThresholdM}
		if !core.ValidThreshold(n.ThresholdM) {
			n.ThresholdM = settings.DefaultThresholdM
		}
		nodes = append(nodes, n)
	}

	waypoints := make([]core.Waypoint, 0, len(rec.Waypoints))
	for _, rw := range rec.Waypoints {
		kind := core.WaypointKind(rw.Kind)
		if !core.ValidWaypointKind(kind) {
			s.logger.Warn("Dropping waypoint with unknown kind", "id", rw.ID, "kind", rw.Kind)
			continue
		}
		waypoints = append(waypoints, core.Waypoint{ID: rw.ID, Pos: core.Position{X: rw.X, Y: rw.Y}, Kind: kind})
	}

	s.state.RestoreSnapshot(img, nodes, waypoints, settings)
	s.logger.Info("Session restored",
		"image", rec.ImageName,
		"nodes", len(nodes),
		"waypoints", len(waypoints))
	return nil
}

// restoreSettings merges persisted settings over the defaults. Absent
// or invalid fields keep their default.
func (s *Service) restoreSettings(rs *RecordSettings) core.Settings {
	settings := core.DefaultSettings()
	if rs == nil {
		return settings
	}

	if rs.ActiveTool != nil && core.ValidTool(core.Tool(*rs.ActiveTool)) {
		settings.ActiveTool = core.Tool(*rs.ActiveTool)
	}
	if rs.DefaultThresholdM != nil && core.ValidThreshold(*rs.DefaultThresholdM) {
		settings.DefaultThresholdM = *rs.DefaultThresholdM
	}
	if rs.ScaleMPerPx != nil && *rs.ScaleMPerPx > 0 {
		settings.ScaleMPerPx = *rs.ScaleMPerPx
	}
	if rs.ScaleLocked != nil {
		settings.ScaleLocked = *rs.ScaleLocked
	}
	if rs.ShowLinks != nil {
		settings.ShowLinks = *rs.ShowLinks
	}
	if rs.ShowLabels != nil {
		settings.ShowLabels = *rs.ShowLabels
	}
	return settings
}

// Save serializes the current state and writes it to the store.
func (s *Service) Save() error {
	payload, err := s.Serialize()
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.store.Write(payload); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	s.durMu.Lock()
	s.lastSaveTook = time.Since(start)
	s.durMu.Unlock()
	return nil
}

// LastSaveDuration returns how long the most recent store write took.
func (s *Service) LastSaveDuration() time.Duration {
	s.durMu.RLock()
	defer s.durMu.RUnlock()
	return s.lastSaveTook
}

// Load reads the stored record and restores it. Returns
// store.ErrNoSession when the slot is empty.
func (s *Service) Load() error {
	payload, err := s.store.Read()
	if err != nil {
		return err
	}
	return s.Restore(payload)
}

// Delete removes the stored record.
func (s *Service) Delete() error {
	return s.store.Delete()
}

// HasSaved reports whether a stored record exists.
func (s *Service) HasSaved() (bool, error) {
	return s.store.Exists()
}
