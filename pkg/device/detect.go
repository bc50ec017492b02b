package device

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/holoplot/go-evdev"
)

type eventOfDevice struct {
	device chatter.DeviceInfo
	event  *chatter.Event
}

// Detect listens on all devices and returns the first one which releases a key.
func Detect(ctx context.Context, devices []chatter.DeviceInfo, out io.Writer) (chatter.DeviceInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c := make(chan eventOfDevice)
	foundDevices := 0
	for _, d := range devices {
		dev, err := evdev.OpenWithFlags(d.Path, os.O_RDONLY)
		if err != nil {
			if strings.Contains(err.Error(), "inappropriate ioctl for device") {
				continue
			}
			slog.Debug("Failed to open device", "path", d.Path, "error", err)
			continue
		}
		foundDevices++
		defer dev.Close()
		go readEvents(ctx, dev, d, c)
	}
	if foundDevices == 0 {
		return chatter.DeviceInfo{}, fmt.Errorf("No device found (try `sudo`, since root permissions are needed)")
	}
	fmt.Fprintln(out, "Please use the device you want to use, now. Capturing events ....")
	for {
		select {
		case <-ctx.Done():
			return chatter.DeviceInfo{}, ctx.Err()
		case evOfDevice := <-c:
			ev := evOfDevice.event
			if ev.Type != evdev.EV_KEY || ev.Value != chatter.UP {
				continue
			}
			if !strings.HasPrefix(ev.CodeName(), "KEY_") {
				continue
			}
			return evOfDevice.device, nil
		}
	}
}

func readEvents(ctx context.Context, dev *evdev.InputDevice, d chatter.DeviceInfo, c chan<- eventOfDevice) {
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return
		}
		select {
		case c <- eventOfDevice{d, ev}:
		case <-ctx.Done():
			return
		}
	}
}
