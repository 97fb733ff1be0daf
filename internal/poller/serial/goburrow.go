// internal/poller/serial/goburrow.go
package serial

import (
	"errors"

	gserial "github.com/goburrow/serial"
)

func openGoburrow(cfg Config) (port, error) {
	return gserial.Open(&gserial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
}

func goburrowTimeout(err error) bool {
	return errors.Is(err, gserial.ErrTimeout)
}
