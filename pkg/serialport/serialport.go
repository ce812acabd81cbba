// Package serialport opens the CAT serial device.
package serialport

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Open opens the serial device at the given baud rate with the fixed
// 8N1 framing CI-V controllers expect.
func Open(device string, baudRate int) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}
	return port, nil
}
