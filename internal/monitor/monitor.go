// Package monitor periodically samples the planning state and reports
// annotation counts and timing stats to a status file and InfluxDB.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/meshsite/planner/internal/influx"
	"github.com/meshsite/planner/internal/logging"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/internal/session"
)

// Perf is one sampled snapshot of planner activity.
type Perf struct {
	Time           time.Time `json:"time"`
	ImageName      string    `json:"imageName"`
	NodeCount      int       `json:"nodeCount"`
	WaypointCount  int       `json:"waypointCount"`
	LinkCount      int       `json:"linkCount"`
	Revision       uint64    `json:"revision"`
	GraphComputeMs float64   `json:"graphComputeMs"`
	LastSaveMs     float64   `json:"lastSaveMs"`
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	State      *plan.State
	Session    *session.Service
	Influx     *influx.Manager
	LogManager *logging.SlogManager
	StatusDir  string
	MaxDegree  int
	Interval   time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample reads the current planner state into a Perf snapshot. The
// link graph is recomputed so the compute duration reflects the live
// node set.
func (s *Service) Sample() Perf {
	perf := Perf{Time: time.Now()}

	if img := s.deps.State.Image(); img != nil {
		perf.ImageName = img.Name
	}
	perf.NodeCount = len(s.deps.State.Nodes())
	perf.WaypointCount = len(s.deps.State.Waypoints())
	perf.Revision = s.deps.State.Revision()

	start := time.Now()
	graph := s.deps.State.Graph(s.deps.MaxDegree)
	perf.GraphComputeMs = float64(time.Since(start).Microseconds()) / 1000.0
	perf.LinkCount = len(graph.Edges)

	if s.deps.Session != nil {
		perf.LastSaveMs = float64(s.deps.Session.LastSaveDuration().Microseconds()) / 1000.0
	}

	return perf
}

// GetProgramStatus returns printable status lines plus the snapshot
// they were built from.
func (s *Service) GetProgramStatus(counts bool, timings bool) (output []string, perf Perf) {
	perf = s.Sample()

	if counts {
		countsObj := map[string]any{
			"imageName": perf.ImageName,
			"nodes":     perf.NodeCount,
			"waypoints": perf.WaypointCount,
			"links":     perf.LinkCount,
			"revision":  perf.Revision,
		}
		countsStr, err := json.MarshalIndent(countsObj, "", "  ")
		if err != nil {
			countsStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
		}
		output = append(output, string(countsStr))
	}
	if timings {
		timingsObj := map[string]any{
			"graphComputeMs": perf.GraphComputeMs,
			"lastSaveMs":     perf.LastSaveMs,
		}
		timingsStr, err := json.MarshalIndent(timingsObj, "", "  ")
		if err != nil {
			timingsStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
		}
		output = append(output, string(timingsStr))
	}

	return output, perf
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "startStatusMonitor")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(s.deps.Interval)

				if !s.deps.State.HasImage() {
					continue
				}

				statusStr, perf := s.GetProgramStatus(true, true)

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					for _, line := range statusStr {
						statusFile.WriteString(line + "\n")
					}
				}

				s.writeInflux(perf)
			}
		}
	}()

	return nil
}

// writeInflux forwards a snapshot to the metrics sink. Failures are
// logged and never interrupt monitoring.
func (s *Service) writeInflux(perf Perf) {
	if s.deps.Influx == nil {
		return
	}

	logger := s.deps.LogManager.Logger()
	ctx := context.Background()

	point := influx.AnnotationPoint(
		perf.ImageName, perf.NodeCount, perf.WaypointCount, perf.LinkCount, perf.Revision, perf.Time)
	if err := s.deps.Influx.WritePoint(ctx, influx.BucketPlanData, point); err != nil {
		logger.Error("Error writing annotation stats to InfluxDB", "error", err)
	}

	point = influx.PerformancePoint(
		time.Duration(perf.GraphComputeMs*float64(time.Millisecond)),
		time.Duration(perf.LastSaveMs*float64(time.Millisecond)),
		perf.Time)
	if err := s.deps.Influx.WritePoint(ctx, influx.BucketPerformance, point); err != nil {
		logger.Error("Error writing timing stats to InfluxDB", "error", err)
	}
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
