// Package handlers wires dispatcher commands to the planning engine:
// pointer events, annotation edits, session lifecycle, and the JSON
// projections the renderer polls.
package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/meshsite/planner/internal/api"
	"github.com/meshsite/planner/internal/dispatcher"
	"github.com/meshsite/planner/internal/geo"
	"github.com/meshsite/planner/internal/imageio"
	"github.com/meshsite/planner/internal/interaction"
	"github.com/meshsite/planner/internal/logging"
	"github.com/meshsite/planner/internal/parser"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/internal/session"
	"github.com/meshsite/planner/internal/status"
	"github.com/meshsite/planner/pkg/core"
)

// Dependencies holds all dependencies needed by handlers.
type Dependencies struct {
	State      *plan.State
	Controller *interaction.Controller
	Session    *session.Service
	Status     *status.Reporter
	LogManager *logging.SlogManager
	APIClient  *api.Client
	MaxDegree  int
}

// Service provides handler methods for processing frontend commands.
type Service struct {
	deps         Dependencies
	parser       *parser.Parser
	writeLogFunc func(functionName, data, level string)
}

// NewService creates a new handler service.
func NewService(deps Dependencies) *Service {
	if deps.MaxDegree <= 0 {
		deps.MaxDegree = core.DefaultMaxDegree
	}
	s := &Service{
		deps:   deps,
		parser: parser.NewParser(deps.LogManager.Logger()),
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	return s
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

// RegisterHandlers registers every planner command with the dispatcher.
// Pointer moves are buffered; they arrive at frame rate and must never
// stall the frontend. Everything else runs synchronously so responses
// carry real results.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":POINTER:MOVE:", func(e dispatcher.Event) (any, error) {
		return s.HandlePointerMove(e.Args)
	}, dispatcher.Buffered(1024), dispatcher.Blocking())
	d.Register(":POINTER:DOWN:", func(e dispatcher.Event) (any, error) {
		return s.HandlePointerDown(e.Args)
	})
	d.Register(":POINTER:UP:", func(e dispatcher.Event) (any, error) {
		return s.HandlePointerUp()
	})
	d.Register(":POINTER:LEAVE:", func(e dispatcher.Event) (any, error) {
		return s.HandlePointerLeave()
	})
	d.Register(":CLICK:", func(e dispatcher.Event) (any, error) {
		return s.HandleClick(e.Args)
	})
	d.Register(":RESIZE:", func(e dispatcher.Event) (any, error) {
		return s.HandleResize(e.Args)
	})
	d.Register(":TOOL:", func(e dispatcher.Event) (any, error) {
		return s.HandleTool(e.Args)
	})
	d.Register(":THRESHOLD:", func(e dispatcher.Event) (any, error) {
		return s.HandleThreshold(e.Args)
	})
	d.Register(":SCALE:", func(e dispatcher.Event) (any, error) {
		return s.HandleScale(e.Args)
	})
	d.Register(":SCALE:LOCK:", func(e dispatcher.Event) (any, error) {
		return s.HandleScaleLock(e.Args)
	})
	d.Register(":UNDO:", func(e dispatcher.Event) (any, error) {
		return s.HandleUndo()
	})
	d.Register(":CLEAR:", func(e dispatcher.Event) (any, error) {
		return s.HandleClear()
	})
	d.Register(":IMAGE:LOAD:", func(e dispatcher.Event) (any, error) {
		return s.HandleImageLoad(e.Args)
	}, dispatcher.Logged())
	d.Register(":SESSION:SAVE:", func(e dispatcher.Event) (any, error) {
		return s.HandleSessionSave()
	}, dispatcher.Logged())
	d.Register(":SESSION:RESTORE:", func(e dispatcher.Event) (any, error) {
		return s.HandleSessionRestore()
	}, dispatcher.Logged())
	d.Register(":SESSION:DELETE:", func(e dispatcher.Event) (any, error) {
		return s.HandleSessionDelete()
	}, dispatcher.Logged())
	d.Register(":QUERY:GRAPH:", func(e dispatcher.Event) (any, error) {
		return s.HandleQueryGraph()
	})
	d.Register(":QUERY:STATE:", func(e dispatcher.Event) (any, error) {
		return s.HandleQueryState()
	})
	d.Register(":EXPORT:GEO:", func(e dispatcher.Event) (any, error) {
		return s.HandleExportGeo(e.Args)
	}, dispatcher.Logged())
	d.Register(":STATUS:", func(e dispatcher.Event) (any, error) {
		return s.HandleStatus()
	})
}

// HandlePointerMove advances hover or drag from a pointer move.
func (s *Service) HandlePointerMove(data []string) (any, error) {
	functionName := ":POINTER:MOVE:"

	pos, err := s.parser.ParsePointer(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing pointer move: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.Controller.PointerMove(pos)
	return "ok", nil
}

// HandlePointerDown starts a drag when the pointer is over an annotation.
func (s *Service) HandlePointerDown(data []string) (any, error) {
	functionName := ":POINTER:DOWN:"

	pos, err := s.parser.ParsePointer(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing pointer down: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.Controller.PointerDown(pos)
	return "ok", nil
}

// HandlePointerUp ends any active drag.
func (s *Service) HandlePointerUp() (any, error) {
	s.deps.Controller.PointerUp()
	return "ok", nil
}

// HandlePointerLeave clears hover and ends any drag.
func (s *Service) HandlePointerLeave() (any, error) {
	s.deps.Controller.PointerLeave()
	return "ok", nil
}

// HandleClick selects the annotation under the pointer or places a new
// one with the active tool.
func (s *Service) HandleClick(data []string) (any, error) {
	functionName := ":CLICK:"

	pos, err := s.parser.ParsePointer(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing click: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.Controller.Click(pos)
	return "ok", nil
}

// HandleResize records the frontend container size.
func (s *Service) HandleResize(data []string) (any, error) {
	functionName := ":RESIZE:"

	w, h, err := s.parser.ParseResize(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing resize: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.Controller.Resize(w, h)
	return "ok", nil
}

// HandleTool switches the active placement tool.
func (s *Service) HandleTool(data []string) (any, error) {
	functionName := ":TOOL:"

	tool, err := s.parser.ParseTool(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing tool: %v`, err), "ERROR")
		return nil, err
	}
	if !s.deps.State.SetActiveTool(tool) {
		return nil, fmt.Errorf("tool %q rejected", tool)
	}
	return "ok", nil
}

// HandleThreshold changes the default threshold or one node's threshold.
func (s *Service) HandleThreshold(data []string) (any, error) {
	functionName := ":THRESHOLD:"

	change, err := s.parser.ParseThreshold(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing threshold: %v`, err), "ERROR")
		return nil, err
	}

	if change.IsDefault {
		if !s.deps.State.SetDefaultThreshold(change.ValueM) {
			return nil, fmt.Errorf("threshold %v m rejected", change.ValueM)
		}
		return "ok", nil
	}

	if !s.deps.State.SetNodeThreshold(change.NodeID, change.ValueM) {
		return nil, fmt.Errorf("node %d not found", change.NodeID)
	}
	return "ok", nil
}

// HandleScale sets the plan scale in meters per pixel. The scale is
// rejected while locked.
func (s *Service) HandleScale(data []string) (any, error) {
	functionName := ":SCALE:"

	scale, err := s.parser.ParseScale(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing scale: %v`, err), "ERROR")
		return nil, err
	}
	if !s.deps.State.SetScale(scale) {
		return nil, fmt.Errorf("scale is locked")
	}
	return "ok", nil
}

// HandleScaleLock toggles the scale lock.
func (s *Service) HandleScaleLock(data []string) (any, error) {
	functionName := ":SCALE:LOCK:"

	locked, err := s.parser.ParseFlag(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing scale lock: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.State.SetScaleLocked(locked)
	return "ok", nil
}

// HandleUndo removes the most recently created annotation.
func (s *Service) HandleUndo() (any, error) {
	if !s.deps.State.Undo() {
		return "empty", nil
	}
	return "ok", nil
}

// HandleClear removes every annotation and resets pointer state.
func (s *Service) HandleClear() (any, error) {
	s.deps.State.ClearAnnotations()
	s.deps.Controller.ClearPointerState()
	return "ok", nil
}

// HandleImageLoad begins an async decode of a new site image. The
// response is immediate; completion or failure surfaces as a status
// message.
func (s *Service) HandleImageLoad(data []string) (any, error) {
	functionName := ":IMAGE:LOAD:"

	name, raw, err := s.parser.ParseImageLoad(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing image payload: %v`, err), "ERROR")
		return nil, err
	}

	s.StartImageLoad(name, raw)
	return "loading", nil
}

// StartImageLoad decodes raw image bytes off the handler goroutine and
// installs the result. A decode superseded by a newer load or a restore
// is dropped; a failed decode leaves the previous image in place.
func (s *Service) StartImageLoad(name string, raw []byte) {
	functionName := ":IMAGE:LOAD:"
	seq := s.deps.State.BeginImageLoad()

	go func() {
		info, err := imageio.Decode(raw)
		if err != nil {
			s.deps.State.FailImageLoad(seq)
			s.writeLog(functionName, fmt.Sprintf(`Error decoding image %q: %v`, name, err), "ERROR")
			s.deps.Status.Error("could not load image: " + name)
			return
		}

		ok := s.deps.State.CompleteImageLoad(seq, plan.ImageInfo{
			Name:   name,
			Width:  info.Width,
			Height: info.Height,
			Data:   raw,
		})
		if !ok {
			s.writeLog(functionName, fmt.Sprintf(`Dropped stale image load %q`, name), "DEBUG")
			return
		}

		// annotations from the previous image are gone; stale targets with them
		s.deps.Controller.ClearPointerState()
		s.deps.Status.Info("image loaded: " + name)
	}()
}

// HandleSessionSave persists the current session and, when a companion
// viewer is configured, uploads a snapshot best effort.
func (s *Service) HandleSessionSave() (any, error) {
	functionName := ":SESSION:SAVE:"

	if err := s.deps.Session.Save(); err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error saving session: %v`, err), "ERROR")
		return nil, err
	}
	s.deps.Status.Info("session saved")

	if s.deps.APIClient != nil {
		go s.uploadSnapshot()
	}
	return "ok", nil
}

func (s *Service) uploadSnapshot() {
	functionName := ":SESSION:SAVE:"

	payload, err := s.deps.Session.Serialize()
	if err != nil {
		return
	}
	img := s.deps.State.Image()
	if img == nil {
		return
	}
	meta := core.SessionMeta{
		ImageName:     img.Name,
		SavedAt:       time.Now().UTC(),
		NodeCount:     len(s.deps.State.Nodes()),
		WaypointCount: len(s.deps.State.Waypoints()),
	}
	if err := s.deps.APIClient.UploadSession(payload, meta); err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error uploading session snapshot: %v`, err), "ERROR")
	}
}

// HandleSessionRestore replaces the whole state from the stored record.
func (s *Service) HandleSessionRestore() (any, error) {
	functionName := ":SESSION:RESTORE:"

	if err := s.deps.Session.Load(); err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error restoring session: %v`, err), "ERROR")
		return nil, err
	}

	// a restored session starts with nothing hovered or selected
	s.deps.Controller.ClearPointerState()
	s.deps.Status.Info("session restored")
	return "ok", nil
}

// HandleSessionDelete removes the stored session record.
func (s *Service) HandleSessionDelete() (any, error) {
	functionName := ":SESSION:DELETE:"

	if err := s.deps.Session.Delete(); err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error deleting session: %v`, err), "ERROR")
		return nil, err
	}
	return "ok", nil
}

// HandleQueryGraph returns the derived link graph as JSON.
func (s *Service) HandleQueryGraph() (any, error) {
	graph := s.deps.State.Graph(s.deps.MaxDegree)
	raw, err := json.Marshal(graphView{
		Edges:   emptyIfNilEdges(graph.Edges),
		Degrees: emptyIfNilInts(graph.Degrees),
	})
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// HandleQueryState returns the full renderer projection as JSON.
func (s *Service) HandleQueryState() (any, error) {
	view := stateView{
		Revision:  s.deps.State.Revision(),
		Loading:   s.deps.State.ImageLoading(),
		Nodes:     emptyIfNilNodes(s.deps.State.Nodes()),
		Waypoints: emptyIfNilWaypoints(s.deps.State.Waypoints()),
		Settings:  s.deps.State.Settings(),
		Hovered:   s.deps.Controller.Hovered(),
		Selected:  s.deps.Controller.Selected(),
		Dragging:  s.deps.Controller.Dragging(),
	}

	if img := s.deps.State.Image(); img != nil {
		view.Image = &imageView{Name: img.Name, Width: img.Width, Height: img.Height}
		tr := s.deps.Controller.Transform()
		view.Transform = &transformView{
			Scale:   tr.Scale,
			OffsetX: tr.OffsetX,
			OffsetY: tr.OffsetY,
		}
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// HandleExportGeo projects nodes and links onto a world anchor and
// returns GeoJSON. Payload: ["<lon>,<lat>"].
func (s *Service) HandleExportGeo(data []string) (any, error) {
	functionName := ":EXPORT:GEO:"

	anchorStr, err := s.parser.ParseAnchor(data)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error parsing anchor: %v`, err), "ERROR")
		return nil, err
	}
	anchor, err := geo.AnchorFromString(anchorStr)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Invalid anchor %q: %v`, anchorStr, err), "ERROR")
		return nil, err
	}

	nodes := s.deps.State.Nodes()
	graph := s.deps.State.Graph(s.deps.MaxDegree)
	scale := s.deps.State.Settings().ScaleMPerPx

	raw, err := geo.ExportGeoJSON(anchor, scale, nodes, graph)
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf(`Error exporting GeoJSON: %v`, err), "ERROR")
		return nil, err
	}
	return string(raw), nil
}

// HandleStatus drains buffered status messages as a JSON list.
func (s *Service) HandleStatus() (any, error) {
	messages := s.deps.Status.Drain()
	if messages == nil {
		messages = []status.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
