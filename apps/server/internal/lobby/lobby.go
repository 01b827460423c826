package lobby

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/table"

	"go.uber.org/zap"
)

// Lobby accepts connections and seats them at the table.
type Lobby struct {
	table *table.Table
	log   *zap.Logger

	mu       sync.Mutex
	accepted uint64
	rejected uint64
}

// Stats counts admissions since the lobby started.
type Stats struct {
	Accepted uint64
	Rejected uint64
}

// New creates a lobby in front of tbl.
func New(tbl *table.Table, logger *zap.Logger) *Lobby {
	return &Lobby{
		table: tbl,
		log:   logger.Named("lobby"),
	}
}

// Table returns the table the lobby seats players at.
func (l *Lobby) Table() *table.Table {
	return l.table
}

func (l *Lobby) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Accepted: l.accepted, Rejected: l.rejected}
}

// Serve accepts connections on ln until ctx is done or ln is closed.
// Transient accept errors are logged and the loop keeps going.
func (l *Lobby) Serve(ctx context.Context, ln net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()

	l.log.Info("accepting connections", zap.String("addr", ln.Addr().String()))
	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				l.log.Info("listener closed")
				return nil
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			l.log.Warn("accept failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		_, _ = l.Admit(NewLineConn(conn))
	}
}

// Admit seats conn at the table. A connection that cannot be seated gets a
// single INFO line and is closed.
func (l *Lobby) Admit(conn table.Conn) (*table.Seat, error) {
	seat, err := l.table.Join(conn)
	if err != nil {
		l.mu.Lock()
		l.rejected++
		l.mu.Unlock()

		reason := codec.TableFull
		if errors.Is(err, table.ErrTableClosed) {
			reason = codec.Closing
		}
		if werr := conn.WriteLine(codec.Info(reason)); werr != nil {
			l.log.Debug("rejection not delivered", zap.Error(werr))
		}
		_ = conn.Close()
		l.log.Info("connection rejected", zap.String("remote", conn.RemoteAddr()), zap.Error(err))
		return nil, err
	}

	l.mu.Lock()
	l.accepted++
	l.mu.Unlock()
	return seat, nil
}

// AdmitPipe seats the server end of an in-process pipe and returns the other
// end. Nothing is written to a rejected pipe.
func (l *Lobby) AdmitPipe() (net.Conn, *table.Seat, error) {
	server, client := net.Pipe()
	seat, err := l.table.Join(NewLineConn(server))
	if err != nil {
		l.mu.Lock()
		l.rejected++
		l.mu.Unlock()
		_ = server.Close()
		_ = client.Close()
		return nil, nil, err
	}

	l.mu.Lock()
	l.accepted++
	l.mu.Unlock()
	return client, seat, nil
}
