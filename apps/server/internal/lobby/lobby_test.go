package lobby

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/table"
	"blackjack-lite/blackjack"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const waitTimeout = 3 * time.Second

type tcpClient struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func dial(t *testing.T, addr string) *tcpClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, waitTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &tcpClient{conn: conn, scanner: bufio.NewScanner(conn)}
}

func (c *tcpClient) readLine(t *testing.T) (string, bool) {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

// playUntilResult answers every turn with STAND and returns the RESULT line.
func (c *tcpClient) playUntilResult() (string, error) {
	for {
		if err := c.conn.SetReadDeadline(time.Now().Add(waitTimeout)); err != nil {
			return "", err
		}
		if !c.scanner.Scan() {
			return "", fmt.Errorf("connection closed before result: %v", c.scanner.Err())
		}
		line := c.scanner.Text()
		if codec.IsYourTurn(line) {
			if _, err := fmt.Fprint(c.conn, "stand\r\n"); err != nil {
				return "", err
			}
		}
		if msg := codec.Decode(line); msg.Kind == codec.KindResult {
			return line, nil
		}
	}
}

func startLobby(t *testing.T, maxPlayers int) (*Lobby, string) {
	t.Helper()
	cfg := blackjack.DefaultConfig()
	cfg.MaxPlayers = maxPlayers
	cfg.MinPlayers = 1
	cfg.Seed = 7

	tbl, err := table.New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(tbl.Stop)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	l := New(tbl, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(waitTimeout):
			t.Error("Serve did not return")
		}
	})
	return l, ln.Addr().String()
}

func TestRejectsWhenFull(t *testing.T) {
	l, addr := startLobby(t, 3)

	for i := 0; i < 3; i++ {
		c := dial(t, addr)
		line, ok := c.readLine(t)
		require.True(t, ok)
		require.Equal(t, codec.Welcome, line)
	}

	extra := dial(t, addr)
	line, ok := extra.readLine(t)
	require.True(t, ok)
	require.Equal(t, "INFO|"+codec.TableFull, line)
	_, ok = extra.readLine(t)
	require.False(t, ok, "rejected connection should be closed")

	require.Equal(t, 3, l.Table().SeatCount())
	require.Equal(t, Stats{Accepted: 3, Rejected: 1}, l.Stats())
}

func TestRoundOverTCP(t *testing.T) {
	_, addr := startLobby(t, 2)
	a := dial(t, addr)
	b := dial(t, addr)

	type result struct {
		line string
		err  error
	}
	results := make(chan result, 2)
	for _, c := range []*tcpClient{a, b} {
		go func(c *tcpClient) {
			line, err := c.playUntilResult()
			results <- result{line: line, err: err}
		}(c)
	}
	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err)
		require.True(t, strings.HasPrefix(res.line, "RESULT|"), res.line)
	}
}

func TestLineConnTrimsTerminators(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	lc := NewLineConn(server)
	defer lc.Close()

	go func() {
		_, _ = client.Write([]byte("HIT\r\nstand\nDISCONNECT"))
		_ = client.Close()
	}()

	for _, want := range []string{"HIT", "stand", "DISCONNECT"} {
		got, err := lc.ReadLine()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := lc.ReadLine()
	require.Error(t, err)
}

func TestLineConnRejectsOverlongLine(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	lc := NewLineConn(server)
	defer lc.Close()

	go func() {
		_, _ = client.Write([]byte(strings.Repeat("x", MaxLineLength+1)))
	}()

	_, err := lc.ReadLine()
	require.ErrorIs(t, err, bufio.ErrTooLong)
}
