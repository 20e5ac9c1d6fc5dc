// Package mpv controls an mpv process through its JSON IPC socket.
// Reference: https://mpv.io/manual/stable/#json-ipc
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Errors
var (
	ErrClosed              = errors.New("mpv connection closed")
	ErrPropertyUnavailable = errors.New("property unavailable")
)

// Config represents mpv client configuration.
type Config struct {
	Binary       string        // mpv executable
	SocketDir    string        // Directory for the IPC socket (os.TempDir when empty)
	ExtraArgs    []string      // Additional command-line arguments
	StartTimeout time.Duration // How long to wait for the IPC socket to appear
	Volume       int           // Initial volume (0-100)
}

// request is a single IPC command.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// response is an IPC reply or an asynchronous event.
type response struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID *int64          `json:"request_id"`
	Event     string          `json:"event"`
}

// Client is an mpv IPC client.
type Client struct {
	conn net.Conn
	cmd  *exec.Cmd // nil when attached to an existing socket

	writeMu sync.Mutex
	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan response
	closed  bool

	done chan struct{}
}

// Start launches mpv for file and connects to its IPC socket.
func Start(ctx context.Context, cfg Config, file string) (*Client, error) {
	if cfg.Binary == "" {
		cfg.Binary = "mpv"
	}
	if cfg.SocketDir == "" {
		cfg.SocketDir = os.TempDir()
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = 5 * time.Second
	}

	binary, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, errors.Wrapf(err, "mpv executable %q not found", cfg.Binary)
	}

	socketPath := filepath.Join(cfg.SocketDir, "pobre-mpv-"+uuid.New().String()+".sock")
	cmd := exec.Command(binary, launchArgs(cfg, socketPath, file)...)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start mpv")
	}
	zlog.Debug().Msgf("mpv: started pid=%d socket=%s", cmd.Process.Pid, socketPath)

	conn, err := waitForSocket(ctx, socketPath, cfg.StartTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	c := newClient(conn)
	c.cmd = cmd
	return c, nil
}

// Dial connects to an mpv instance that is already listening on socketPath.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to mpv socket %s", socketPath)
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[int64]chan response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// launchArgs builds the mpv command line. file is omitted when empty.
func launchArgs(cfg Config, socketPath, file string) []string {
	args := []string{
		"--idle=yes",
		"--keep-open=yes",
		"--force-window=yes",
		"--input-ipc-server=" + socketPath,
	}
	if cfg.Volume > 0 {
		args = append(args, "--volume="+strconv.Itoa(cfg.Volume))
	}
	args = append(args, cfg.ExtraArgs...)
	if file != "" {
		args = append(args, file)
	}
	return args
}

// waitForSocket polls until mpv creates its IPC socket.
func waitForSocket(ctx context.Context, socketPath string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var d net.Dialer
	var lastErr error
	for {
		conn, err := d.DialContext(ctx, "unix", socketPath)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(lastErr, "mpv IPC socket did not come up within %v", timeout)
		case <-ticker.C:
		}
	}
}

// readLoop dispatches replies to waiting callers and drops events.
func (c *Client) readLoop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			zlog.Debug().Msgf("mpv: ignoring malformed line: %v", err)
			continue
		}
		if resp.Event != "" {
			zlog.Debug().Msgf("mpv: event %s", resp.Event)
			continue
		}
		if resp.RequestID == nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*resp.RequestID]
		delete(c.pending, *resp.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}

	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// Command sends an IPC command and returns the reply data.
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan response, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, errors.Wrap(err, "failed to encode command")
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(line, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, errors.Wrap(err, "failed to send command")
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		switch resp.Error {
		case "success":
			return resp.Data, nil
		case "property unavailable":
			return nil, ErrPropertyUnavailable
		default:
			return nil, errors.Newf("mpv command %v failed: %s", args[0], resp.Error)
		}
	case <-ctx.Done():
		c.forget(id)
		return nil, errors.Wrap(ctx.Err(), "mpv command timed out")
	}
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Close quits the mpv process if this client started it and closes the socket.
func (c *Client) Close() error {
	if c.cmd != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, _ = c.Command(ctx, "quit")
		cancel()
	}

	err := c.conn.Close()
	<-c.done

	if c.cmd != nil {
		_ = c.cmd.Wait()
	}
	if err != nil {
		return errors.Wrap(err, "failed to close mpv socket")
	}
	return nil
}
