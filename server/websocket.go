package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/camera-next/camcli/utils"
	"github.com/camera-next/camcli/viewfinder"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// EventMessage is the server-push frame carrying a viewfinder notification.
// It is distinguishable from JSON-RPC responses by its "event" field.
type EventMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{conn: conn}

	// forward every hub notification to this connection for as long as it
	// lives
	tokens := s.subscribeEvents(wsConn)
	defer func() {
		for _, token := range tokens {
			s.viewer.Events().Unsubscribe(token)
		}
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "only text messages accepted for requests")
			continue
		}

		s.handleWSMessage(wsConn, message)
	}
}

// subscribeEvents wires the viewer's notifications to wsConn. Snapshot
// payloads are reduced to metadata; the pixel data travels through
// snapshot.image only.
func (s *Server) subscribeEvents(wsConn *wsConnection) []viewfinder.Token {
	hub := s.viewer.Events()
	return []viewfinder.Token{
		hub.Subscribe(viewfinder.EventStart, func(payload interface{}) {
			_ = wsConn.sendJSON(EventMessage{Event: string(viewfinder.EventStart), Payload: payload})
		}),
		hub.Subscribe(viewfinder.EventChange, func(payload interface{}) {
			_ = wsConn.sendJSON(EventMessage{Event: string(viewfinder.EventChange), Payload: payload})
		}),
		hub.Subscribe(viewfinder.EventSnapshot, func(payload interface{}) {
			snap := payload.(*viewfinder.Snapshot)
			_ = wsConn.sendJSON(EventMessage{Event: string(viewfinder.EventSnapshot), Payload: snap.Info()})
		}),
		hub.Subscribe(viewfinder.EventError, func(payload interface{}) {
			msg := ""
			if err, ok := payload.(error); ok {
				msg = err.Error()
			}
			_ = wsConn.sendJSON(EventMessage{Event: string(viewfinder.EventError), Payload: msg})
		}),
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func (s *Server) handleWSMessage(wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		wsConn.sendError(nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		wsConn.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		wsConn.sendError(nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		wsConn.sendError(req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	utils.Verbose("WebSocket Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := s.MethodRegistry()[req.Method]
	if !exists {
		wsConn.sendError(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method+" not found")
		return
	}

	result, err := handler(req.Params)
	if err != nil {
		s.log.WithError(err).WithField("method", req.Method).Warn("method failed")
		wsConn.sendError(req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	wsConn.sendResponse(req.ID, result)
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
