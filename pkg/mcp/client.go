package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned for calls on a closed client or pending calls when
// the peer goes away.
var ErrClosed = errors.New("mcp: client closed")

// Client is a JSON-RPC 2.0 MCP client over a line-delimited stream.
// Concurrent calls are matched to responses by id. No lock is held while a
// call waits for its response.
type Client struct {
	w      io.Writer
	closer io.Closer
	logger *zap.Logger

	writeMu sync.Mutex
	nextID  atomic.Int64

	mu      sync.Mutex
	pending map[string]chan rawResponse
	err     error // set once the read loop stops

	done chan struct{}
	cmd  *exec.Cmd
}

// NewClient starts reading responses from r. Requests are written to w.
// If w is an io.Closer it is closed by Close.
func NewClient(r io.Reader, w io.Writer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		w:       w,
		logger:  logger,
		pending: make(map[string]chan rawResponse),
		done:    make(chan struct{}),
	}
	if cl, ok := w.(io.Closer); ok {
		c.closer = cl
	}
	go c.readLoop(r)
	return c
}

// Spawn starts command as a subprocess and speaks MCP over its stdio.
// The process lives until Close.
func Spawn(command string, args []string, logger *zap.Logger) (*Client, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	c := NewClient(stdout, stdin, logger)
	c.cmd = cmd
	return c, nil
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context, info ServerInfo) (InitializeResult, error) {
	var res InitializeResult
	raw, err := c.call(ctx, "initialize", InitializeParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      info,
		Capabilities:    map[string]any{},
	})
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return res, fmt.Errorf("decode initialize result: %w", err)
	}
	if err := c.notify("notifications/initialized", nil); err != nil {
		return res, err
	}
	return res, nil
}

// CallTool invokes a tool and returns its result. Tool-level failures are
// reported through ToolCallResult.IsError, not err.
func (c *Client) CallTool(ctx context.Context, name string, args any) (*ToolCallResult, error) {
	argBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal arguments: %w", err)
	}
	raw, err := c.call(ctx, "tools/call", ToolCallParams{Name: name, Arguments: argBytes})
	if err != nil {
		return nil, err
	}
	var res ToolCallResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}
	return &res, nil
}

// closeGrace is how long a spawned process gets to exit after its stdin closes.
const closeGrace = 2 * time.Second

// Close shuts the stream down, fails pending calls and, for a spawned
// client, waits for the process to exit.
func (c *Client) Close() error {
	var err error
	if c.closer != nil {
		err = c.closer.Close()
	}
	c.fail(ErrClosed)
	if c.cmd == nil {
		return err
	}

	select {
	case <-c.done:
	case <-time.After(closeGrace):
		_ = c.cmd.Process.Kill()
		<-c.done
	}
	var exitErr *exec.ExitError
	if waitErr := c.cmd.Wait(); waitErr != nil && !errors.As(waitErr, &exitErr) && err == nil {
		err = waitErr
	}
	return err
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := strconv.FormatInt(c.nextID.Add(1), 10)
	ch := make(chan rawResponse, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(json.RawMessage(id), method, params); err != nil {
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, c.closedErr()
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) notify(method string, params any) error {
	return c.write(nil, method, params)
}

func (c *Client) write(id json.RawMessage, method string, params any) error {
	req := Request{JSONRPC: "2.0", ID: id, Method: method}
	if params != nil {
		p, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
		req.Params = p
	}
	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	line = append(line, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.w.Write(line); err != nil {
		return fmt.Errorf("mcp write: %w", err)
	}
	return nil
}

func (c *Client) readLoop(r io.Reader) {
	defer close(c.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp rawResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			c.logger.Warn("mcp: skipping undecodable line", zap.Error(err))
			continue
		}
		if len(resp.ID) == 0 || resp.Method != "" {
			// Server notification or request; nothing is waiting for it.
			continue
		}
		id := normalizeID(resp.ID)
		c.mu.Lock()
		if ch, ok := c.pending[id]; ok {
			delete(c.pending, id)
			ch <- resp
		}
		c.mu.Unlock()
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.fail(fmt.Errorf("%w: %w", ErrClosed, err))
}

// fail records the terminal error and releases every pending call.
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return ErrClosed
	}
	return c.err
}

// normalizeID maps numeric and string ids to the same key.
func normalizeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
