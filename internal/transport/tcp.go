package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"phyboot/internal/domain"
)

// TCPScheme prefixes device identifiers that name a network console, such as
// a ser2net port or the ubootsim simulator.
const TCPScheme = "tcp://"

// Open dispatches on the device identifier: tcp://host:port dials a network
// console, anything else is a serial device node. baud is ignored for TCP.
func Open(device string, baud int) (*LineTransport, error) {
	if addr, ok := strings.CutPrefix(device, TCPScheme); ok {
		return OpenTCP(addr)
	}
	return OpenSerial(device, baud)
}

// OpenTCP dials addr.
func OpenTCP(addr string) (*LineTransport, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", domain.ErrDeviceUnavailable, addr, err)
	}
	return New(&netPort{conn: conn}), nil
}

// netPort gives a net.Conn the serial port's timeout semantics.
type netPort struct {
	conn net.Conn
}

func (p *netPort) Read(b []byte) (int, error) {
	n, err := p.conn.Read(b)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return n, nil
	}
	return n, err
}

func (p *netPort) Write(b []byte) (int, error) { return p.conn.Write(b) }

func (p *netPort) SetReadTimeout(t time.Duration) error {
	return p.conn.SetReadDeadline(time.Now().Add(t))
}

func (p *netPort) Close() error { return p.conn.Close() }
