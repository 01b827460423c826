package lobby

import (
	"bufio"
	"io"
	"net"
	"sync"
	"time"
)

const (
	writeWait = 10 * time.Second
	// MaxLineLength matches the WebSocket read limit.
	MaxLineLength = 4096
)

// LineConn frames a stream connection into newline-terminated lines.
type LineConn struct {
	conn    net.Conn
	scanner *bufio.Scanner

	writeMu sync.Mutex
}

func NewLineConn(conn net.Conn) *LineConn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 512), MaxLineLength)
	return &LineConn{conn: conn, scanner: scanner}
}

// ReadLine returns the next line without its terminator. A final unterminated
// line is returned before io.EOF. Lines longer than MaxLineLength fail with
// bufio.ErrTooLong.
func (c *LineConn) ReadLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

func (c *LineConn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

func (c *LineConn) Close() error {
	return c.conn.Close()
}

func (c *LineConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
