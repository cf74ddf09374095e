package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

// Service is the chart service exposed as tools.
type Service interface {
	Compute(ctx context.Context, req saju.ComputeRequest) (saju.ComputeResponse, error)
	Lookup(ctx context.Context, key string) (saju.LookupResponse, error)
	Consult(ctx context.Context, key, question string) (saju.ConsultResponse, error)
}

// CacheStatter reports counters for backends that keep them.
type CacheStatter interface {
	Stats(ctx context.Context) (models.CacheStats, error)
}

// Server answers MCP requests over newline-delimited JSON-RPC 2.0.
// Tool calls run concurrently; responses may arrive out of request order.
type Server struct {
	svc     Service
	cache   CacheStatter
	logger  *zap.Logger
	version string

	writeMu sync.Mutex
}

// NewServer creates a Server. cache may be nil when the backend keeps no
// statistics.
func NewServer(svc Service, cache CacheStatter, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, cache: cache, logger: logger, version: version}
}

// Run serves requests from r until r reaches EOF or ctx is cancelled, then
// waits for in-flight tool calls to finish writing.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, maxLine), maxLine)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.send(w, failure(nil, CodeParseError, "parse error"))
			continue
		}

		if req.Method == "tools/call" && req.ID != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.send(w, s.callTool(ctx, &req))
			}()
			continue
		}
		if resp := s.dispatch(&req); resp != nil {
			s.send(w, *resp)
		}
	}
	return scanner.Err()
}

// dispatch handles the synchronous methods. A nil response means the
// request was a notification.
func (s *Server) dispatch(req *Request) *Response {
	if req.ID == nil {
		return nil
	}
	var resp Response
	switch req.Method {
	case "initialize":
		resp = success(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      ServerInfo{Name: "yedamo", Version: s.version},
			Capabilities:    map[string]any{"tools": map[string]any{}},
		})
	case "ping":
		resp = success(req.ID, struct{}{})
	case "tools/list":
		resp = success(req.ID, ToolsListResult{Tools: allTools})
	default:
		resp = failure(req.ID, CodeMethodNotFound, "unknown method: "+req.Method)
	}
	return &resp
}

func (s *Server) callTool(ctx context.Context, req *Request) Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return failure(req.ID, CodeInvalidParams, "invalid params")
	}
	handler, ok := toolHandlers[params.Name]
	if !ok {
		return success(req.ID, errorResult("unknown tool: "+params.Name))
	}

	start := time.Now()
	result := handler(ctx, s, params.Arguments)
	s.logger.Info("tool call",
		zap.String("tool", params.Name),
		zap.Bool("is_error", result.IsError),
		zap.Duration("latency", time.Since(start)),
	)
	return success(req.ID, result)
}

// send writes one response line. Concurrent tool calls share w.
func (s *Server) send(w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("mcp: marshal response", zap.Error(err))
		return
	}
	data = append(data, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("mcp: write response", zap.Error(err))
	}
}

func success(id json.RawMessage, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func failure(id json.RawMessage, code int, msg string) Response {
	return Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg}}
}
