// cmd/young32400d/poll.go
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pserial "github.com/tamzrod/young32400-bridge/internal/poller/serial"
	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

func pollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll one interface box from the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := cmd.Flags().GetBool("list")
			if err != nil {
				return err
			}
			if list {
				return listPorts(cmd.OutOrStdout())
			}

			port, err := cmd.Flags().GetString("port")
			if err != nil {
				return err
			}
			driver, err := cmd.Flags().GetString("driver")
			if err != nil {
				return err
			}
			baud, err := cmd.Flags().GetInt("baud")
			if err != nil {
				return err
			}
			address, err := cmd.Flags().GetString("address")
			if err != nil {
				return err
			}
			timeout, err := cmd.Flags().GetDuration("timeout")
			if err != nil {
				return err
			}
			count, err := cmd.Flags().GetInt("count")
			if err != nil {
				return err
			}
			interval, err := cmd.Flags().GetDuration("interval")
			if err != nil {
				return err
			}

			address = strings.ToUpper(address)
			if len(address) != 1 || !young32400.ValidAddress(address[0]) {
				return fmt.Errorf("address must be one of 0-9, A-F (got %q)", address)
			}

			ch, err := pserial.Open(pserial.Config{Port: port, Driver: driver, BaudRate: baud})
			if err != nil {
				return err
			}
			defer ch.Close()

			c := young32400.New(ch, address[0])
			c.SetTimeout(timeout)

			return pollLoop(cmd.OutOrStdout(), c, count, interval)
		},
	}

	cmd.Flags().StringP("port", "p", "", "serial port of the interface box")
	cmd.Flags().String("driver", pserial.DriverGoburrow, "serial driver (goburrow, bugst)")
	cmd.Flags().Int("baud", pserial.DefaultBaudRate, "baud rate")
	cmd.Flags().StringP("address", "a", string(young32400.DefaultAddress), "device address (0-9, A-F)")
	cmd.Flags().Duration("timeout", young32400.DefaultTimeout, "response timeout")
	cmd.Flags().IntP("count", "n", 1, "number of polls (0 = forever)")
	cmd.Flags().Duration("interval", time.Second, "delay between polls")
	cmd.Flags().BoolP("list", "l", false, "list serial ports and exit")
	return cmd
}

// sensor is the part of young32400.Client the command needs.
type sensor interface {
	Poll() error
	LastError() string
	Measurements() young32400.Measurements
}

func pollLoop(w io.Writer, c sensor, count int, interval time.Duration) error {
	failures := 0
	for i := 0; count == 0 || i < count; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		if err := c.Poll(); err != nil {
			failures++
			fmt.Fprintf(w, "poll failed: %s\n", c.LastError())
			continue
		}
		printMeasurements(w, c.Measurements())
	}
	if count > 0 && failures == count {
		return errors.New("no successful poll")
	}
	return nil
}

func printMeasurements(w io.Writer, m young32400.Measurements) {
	fmt.Fprintf(w, "wind speed:      %6.1f m/s\n", m.WindSpeed())
	fmt.Fprintf(w, "wind direction:  %6.1f deg\n", m.WindDirection())
	fmt.Fprintf(w, "VIN1:            %6.1f mV (raw %d, %.1f C)\n", m.VIN1MilliVolts(), m.VIN1, m.TemperatureVIN1())
	fmt.Fprintf(w, "VIN2:            %6.1f mV (raw %d, %.1f C)\n", m.VIN2MilliVolts(), m.VIN2, m.TemperatureVIN2())
	fmt.Fprintf(w, "VIN3:            %6.1f mV (raw %d)\n", m.VIN3MilliVolts(), m.VIN3)
	fmt.Fprintf(w, "VIN4:            %6.1f mV (raw %d)\n", m.VIN4MilliVolts(), m.VIN4)
}

func listPorts(w io.Writer) error {
	ports, err := pserial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}
