package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/camera-next/camcli/types"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// MethodRegistry returns a map of method names to handler functions.
// This is used by both the HTTP endpoint and the WebSocket endpoint.
func (s *Server) MethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":         s.handleStatus,
		"start":          s.handleStart,
		"pointer":        s.handlePointer,
		"region.get":     s.handleRegionGet,
		"region.reset":   s.handleRegionReset,
		"snapshot.take":  s.handleSnapshotTake,
		"snapshot.list":  s.handleSnapshotList,
		"snapshot.image": s.handleSnapshotImage,
	}
}

// Execute dispatches a method call using the registry.
func (s *Server) Execute(method string, params json.RawMessage) (interface{}, error) {
	handler, exists := s.MethodRegistry()[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

func (s *Server) handleStatus(params json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"started":     s.viewer.Started(),
		"interactive": s.viewer.Interactive(),
		"region":      s.viewer.Region(),
		"snapshots":   s.viewer.Store().Len(),
		"size":        s.viewer.Size(),
	}, nil
}

// handleStart brings up the frame source. A previously failed acquisition
// may be retried with this method.
func (s *Server) handleStart(params json.RawMessage) (interface{}, error) {
	if err := s.viewer.Start(); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok"}, nil
}

// PointerParams carries a sequence of pointer actions to apply in order.
type PointerParams struct {
	Actions []types.PointerAction `json:"actions"`
}

func (s *Server) handlePointer(params json.RawMessage) (interface{}, error) {
	var p PointerParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	if len(p.Actions) == 0 {
		return nil, fmt.Errorf("'actions' is required")
	}

	for _, action := range p.Actions {
		if err := s.viewer.Pointer(action); err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{"region": s.viewer.Region()}, nil
}

func (s *Server) handleRegionGet(params json.RawMessage) (interface{}, error) {
	return s.viewer.Region(), nil
}

func (s *Server) handleRegionReset(params json.RawMessage) (interface{}, error) {
	if !s.viewer.Started() {
		return nil, fmt.Errorf("frame source not started")
	}
	s.viewer.ResetRegion()
	return s.viewer.Region(), nil
}

func (s *Server) handleSnapshotTake(params json.RawMessage) (interface{}, error) {
	snap, err := s.viewer.TakeSnapshot(nil)
	if err != nil {
		return nil, err
	}
	return snap.Info(), nil
}

func (s *Server) handleSnapshotList(params json.RawMessage) (interface{}, error) {
	return s.viewer.Store().List(), nil
}

// SnapshotImageParams identifies the snapshot to fetch.
type SnapshotImageParams struct {
	ID string `json:"id"`
}

func (s *Server) handleSnapshotImage(params json.RawMessage) (interface{}, error) {
	var p SnapshotImageParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("'id' is required")
	}

	data, err := s.viewer.Store().EncodePNG(p.ID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"format": "png",
		"data":   fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(data)),
	}, nil
}
