package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/camera-next/camcli/utils"
	"github.com/camera-next/camcli/viewfinder"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602
)

// Server timeouts
const (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second
)

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Options configures the server.
type Options struct {
	// Token, when set, is required as a bearer token on /rpc and /ws.
	Token string
}

// Server exposes one viewer over JSON-RPC and WebSocket. Remote clients
// drive the viewfinder with pointer events and pull snapshots; hub events
// are pushed to every connected WebSocket.
type Server struct {
	viewer  *viewfinder.Viewer
	token   string
	httpSrv *http.Server
	log     *logrus.Entry
}

// NewServer creates a server around viewer.
func NewServer(viewer *viewfinder.Viewer, opts Options) *Server {
	return &Server{
		viewer: viewer,
		token:  opts.Token,
		log:    logrus.WithField("component", "server"),
	}
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware rejects requests without the configured bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler builds the full HTTP handler, used both by ListenAndServe and by
// tests running against httptest.
func (s *Server) Handler(enableCORS bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.sendBanner)
	mux.Handle("/rpc", s.authMiddleware(http.HandlerFunc(s.handleJSONRPC)))
	mux.Handle("/ws", s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(w, r, enableCORS)
	})))

	var handler http.Handler = mux
	if enableCORS {
		handler = corsMiddleware(mux)
	}
	return handler
}

// ListenAndServe starts serving on addr. A bare port number is accepted and
// normalized to ":port".
func (s *Server) ListenAndServe(addr string, enableCORS bool) error {
	if !strings.Contains(addr, ":") {
		port, err := strconv.Atoi(addr)
		if err != nil {
			return fmt.Errorf("invalid port: %v", err)
		}
		addr = fmt.Sprintf(":%d", port)
	}

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(enableCORS),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	utils.Info("Starting server on http://%s...", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the HTTP server and the viewer's frame source.
func (s *Server) Shutdown() {
	s.viewer.Stop()
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(ctx)
	}
}

func (s *Server) sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "server": "camcli"})
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		sendJSONRPCError(w, nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	utils.Verbose("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	if req.Method == "server.shutdown" {
		sendJSONRPCResponse(w, req.ID, map[string]interface{}{"status": "ok"})
		go s.Shutdown()
		return
	}

	handler, known := s.MethodRegistry()[req.Method]
	if !known {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(req.Params)
	if err != nil {
		s.log.WithError(err).WithField("method", req.Method).Warn("method failed")
		sendJSONRPCError(w, req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
