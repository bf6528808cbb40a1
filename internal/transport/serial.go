package transport

import (
	"fmt"
	"os"

	"go.bug.st/serial"

	"phyboot/internal/domain"
)

// OpenSerial opens device at baud 8N1. A device node that does not exist or
// cannot be opened yields domain.ErrDeviceUnavailable before any I/O happens.
func OpenSerial(device string, baud int) (*LineTransport, error) {
	if baud <= 0 {
		return nil, fmt.Errorf("%w: baud must be positive, got %d", domain.ErrUsage, baud)
	}
	if _, err := os.Stat(device); err != nil {
		return nil, fmt.Errorf("%w: %s does not exist: %w", domain.ErrDeviceUnavailable, device, err)
	}
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDeviceUnavailable, device, err)
	}
	return New(port), nil
}

// Ports lists the serial ports the operating system reports.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
