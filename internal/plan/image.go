package plan

import "github.com/meshsite/planner/pkg/core"

// Image loading is two-phase so a slow decode never blocks interaction
// and a superseded load can never clobber newer state: BeginImageLoad
// hands out a sequence number, and only the completion carrying the
// current sequence is applied (last load wins).

// BeginImageLoad marks a decode as in flight and returns its sequence.
func (s *State) BeginImageLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	s.loading = true
	return s.loadSeq
}

// CompleteImageLoad installs a decoded image. Stale completions (a
// newer load has begun since seq was issued) are dropped and return
// false. Installing a new image clears the annotation lists; positions
// from a previous image are meaningless against new dimensions.
func (s *State) CompleteImageLoad(seq uint64, img ImageInfo) bool {
	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		return false
	}
	s.image = &img
	s.loading = false
	s.nodes = nil
	s.waypoints = nil
	s.nodeIdx.Reset()
	s.wpIdx.Reset()
	s.revision++
	s.mu.Unlock()
	s.notify()
	return true
}

// FailImageLoad clears the loading flag for a failed decode, leaving
// all prior state untouched.
func (s *State) FailImageLoad(seq uint64) {
	s.mu.Lock()
	if seq == s.loadSeq {
		s.loading = false
	}
	s.mu.Unlock()
}

// RestoreSnapshot replaces the whole state from a validated session
// record: image, annotations, and settings in one atomic swap. The ID
// counter resumes above the highest restored ID.
func (s *State) RestoreSnapshot(img ImageInfo, nodes []core.Node, waypoints []core.Waypoint, settings core.Settings) {
	s.mu.Lock()
	s.loadSeq++ // cancels interest in any in-flight decode
	s.loading = false
	s.image = &img
	s.nodes = append([]core.Node(nil), nodes...)
	s.waypoints = append([]core.Waypoint(nil), waypoints...)
	s.settings = settings

	s.nodeIdx.Reset()
	s.wpIdx.Reset()
	s.idCounter = 0
	for i, n := range s.nodes {
		s.nodeIdx.Set(n.ID, i)
		if n.ID > s.idCounter {
			s.idCounter = n.ID
		}
	}
	for i, w := range s.waypoints {
		s.wpIdx.Set(w.ID, i)
		if w.ID > s.idCounter {
			s.idCounter = w.ID
		}
	}
	s.revision++
	s.mu.Unlock()
	s.notify()
}
