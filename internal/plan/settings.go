package plan

import "github.com/meshsite/planner/pkg/core"

// SetActiveTool switches the placement tool.
func (s *State) SetActiveTool(t core.Tool) bool {
	if !core.ValidTool(t) {
		return false
	}
	s.mu.Lock()
	s.settings.ActiveTool = t
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// SetDefaultThreshold sets the threshold applied to newly placed nodes.
func (s *State) SetDefaultThreshold(thr float64) bool {
	if !core.ValidThreshold(thr) {
		return false
	}
	s.mu.Lock()
	s.settings.DefaultThresholdM = thr
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// SetScale updates the meters-per-pixel scale. The scale is held fixed
// while locked; callers must unlock first via SetScaleLocked.
func (s *State) SetScale(mPerPx float64) bool {
	s.mu.Lock()
	if s.settings.ScaleLocked || mPerPx <= 0 {
		s.mu.Unlock()
		return false
	}
	s.settings.ScaleMPerPx = mPerPx
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// SetScaleLocked toggles the scale lock.
func (s *State) SetScaleLocked(locked bool) {
	s.mu.Lock()
	s.settings.ScaleLocked = locked
	s.revision++
	s.mu.Unlock()
	s.notify()
}

// SetShowLinks toggles link rendering.
func (s *State) SetShowLinks(show bool) {
	s.mu.Lock()
	s.settings.ShowLinks = show
	s.revision++
	s.mu.Unlock()
	s.notify()
}

// SetShowLabels toggles label rendering.
func (s *State) SetShowLabels(show bool) {
	s.mu.Lock()
	s.settings.ShowLabels = show
	s.revision++
	s.mu.Unlock()
	s.notify()
}
