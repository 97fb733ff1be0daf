// internal/poller/serial/bugst.go
package serial

import (
	"fmt"

	bserial "go.bug.st/serial"
)

func openBugst(cfg Config) (port, error) {
	p, err := bserial.Open(cfg.Port, &bserial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   bserial.NoParity,
		StopBits: bserial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return p, nil
}

// ListPorts enumerates serial ports known to the OS.
func ListPorts() ([]string, error) {
	return bserial.GetPortsList()
}
