package table

import (
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const waitTimeout = 3 * time.Second

// pipeConn is an in-memory Conn. The test side reads what the table writes
// from out and writes client lines to in.
type pipeConn struct {
	name   string
	in     chan string
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newPipeConn(name string) *pipeConn {
	return &pipeConn{
		name:   name,
		in:     make(chan string, 64),
		out:    make(chan string, 4096),
		closed: make(chan struct{}),
	}
}

func (c *pipeConn) ReadLine() (string, error) {
	select {
	case line := <-c.in:
		return line, nil
	case <-c.closed:
		return "", io.EOF
	}
}

func (c *pipeConn) WriteLine(line string) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	select {
	case c.out <- line:
		return nil
	case <-c.closed:
		return net.ErrClosed
	}
}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *pipeConn) RemoteAddr() string { return c.name }

// Policy answers a server line. An empty reply sends nothing.
type Policy func(line string, turn int) string

func standAlways(line string, turn int) string { return "STAND" }

// client plays a seat: it records every line and answers "Your turn" with
// the policy.
type client struct {
	conn  *pipeConn
	lines chan string
}

func newClient(name string, policy Policy) *client {
	c := &client{conn: newPipeConn(name), lines: make(chan string, 4096)}
	go func() {
		turns := 0
		for {
			select {
			case line := <-c.conn.out:
				c.lines <- line
				if policy != nil && codec.IsYourTurn(line) {
					turns++
					if reply := policy(line, turns); reply != "" {
						select {
						case c.conn.in <- reply:
						case <-c.conn.closed:
						}
					}
				}
			case <-c.conn.closed:
				return
			}
		}
	}()
	return c
}

// expect reads lines until one contains want and returns everything read.
func (c *client) expect(t *testing.T, want string) []string {
	t.Helper()
	var seen []string
	deadline := time.After(waitTimeout)
	for {
		select {
		case line := <-c.lines:
			seen = append(seen, line)
			if strings.Contains(line, want) {
				return seen
			}
		case <-deadline:
			t.Fatalf("%s: timed out waiting for %q, got %v", c.conn.name, want, seen)
			return nil
		}
	}
}

func testConfig(maxPlayers, minPlayers int) blackjack.Config {
	cfg := blackjack.DefaultConfig()
	cfg.MaxPlayers = maxPlayers
	cfg.MinPlayers = minPlayers
	cfg.Seed = 42
	return cfg
}

// newTestTable builds a table whose summaries are delivered on the returned
// channel. Logs go to an observer so goroutines may log after the test ends.
func newTestTable(t *testing.T, cfg blackjack.Config, ids ...*SeatCounter) (*Table, <-chan RoundSummary, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	tbl, err := New(cfg, zap.New(core), ids...)
	require.NoError(t, err)
	t.Cleanup(tbl.Stop)

	summaries := make(chan RoundSummary, 16)
	tbl.AddRoundEndHook(func(s RoundSummary) {
		select {
		case summaries <- s:
		default:
		}
	})
	return tbl, summaries, logs
}

func seatClients(t *testing.T, tbl *Table, policies ...Policy) []*client {
	t.Helper()
	clients := make([]*client, len(policies))
	for i, p := range policies {
		clients[i] = newClient(fmt.Sprintf("client-%d", i+1), p)
		_, err := tbl.Join(clients[i].conn)
		require.NoError(t, err)
	}
	return clients
}

func waitSummary(t *testing.T, summaries <-chan RoundSummary) RoundSummary {
	t.Helper()
	select {
	case s := <-summaries:
		return s
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for round summary")
		return RoundSummary{}
	}
}
