// Package mcp implements the client side of a line-delimited JSON-RPC
// tool-calling protocol spoken to a child process over stdin/stdout.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

const protocolVersion = "2024-11-05"

var ErrClosed = errors.New("mcp: connection closed")

// Client talks to one tool server process. Calls may be issued from any
// goroutine; responses are routed back by request id.
type Client struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan *response
	err     error

	done chan struct{}
}

// Dial starts the server binary and performs the initialize handshake.
// A failure here is a startup failure: the caller is expected to report it
// and exit.
func Dial(ctx context.Context, path string, args ...string) (*Client, error) {
	cmd := exec.Command(path, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp: opening stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp: opening stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("mcp: starting %s: %w", path, err)
	}

	c := &Client{
		cmd:     cmd,
		stdin:   stdin,
		pending: make(map[int64]chan *response),
		done:    make(chan struct{}),
	}
	go c.read(stdout)

	var res InitializeResult
	err = c.call(ctx, "initialize", initializeParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      clientInfo{Name: "caltui", Version: "1.0.0"},
	}, &res)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}
	if err := c.call(ctx, "initialized", struct{}{}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialized: %w", err)
	}
	return c, nil
}

// CallTool invokes a named tool and returns the text of the first content
// block. A result flagged isError comes back as an error carrying that
// text.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	var res CallToolResult
	err := c.call(ctx, "tools/call", callToolParams{Name: name, Arguments: args}, &res)
	if err != nil {
		return "", fmt.Errorf("mcp: calling %s: %w", name, err)
	}
	var text string
	if len(res.Content) > 0 {
		text = res.Content[0].Text
	}
	if res.IsError != nil && *res.IsError {
		return "", fmt.Errorf("mcp: %s: %s", name, text)
	}
	return text, nil
}

func (c *Client) call(ctx context.Context, method string, params, out any) error {
	ch := make(chan *response, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	data, err := json.Marshal(request{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return err
	}
	data = append(data, '\n')

	c.mu.Lock()
	_, err = c.stdin.Write(data)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("writing request: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return err
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		return json.Unmarshal(resp.Result, out)
	}
}

func (c *Client) read(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		c.mu.Lock()
		ch := c.pending[resp.ID]
		c.mu.Unlock()
		if ch != nil {
			ch <- &resp
		}
	}

	c.mu.Lock()
	c.err = ErrClosed
	if err := scanner.Err(); err != nil {
		c.err = fmt.Errorf("mcp: reading responses: %w", err)
	}
	c.mu.Unlock()
	close(c.done)
}

// Close shuts the server down and reaps the process.
func (c *Client) Close() error {
	c.stdin.Close()
	<-c.done
	return c.cmd.Wait()
}
