package device

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/holoplot/go-evdev"
)

var InvalidDeviceIDErr = fmt.Errorf("not a valid device id")

// ListDevices returns all input devices. IDs start at 1 and follow the order of
// /dev/input.
func ListDevices() ([]chatter.DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("No single device was found. It is likely that you have no permission to access /dev/input/... (`sudo` might help)")
	}
	devices := make([]chatter.DeviceInfo, 0, len(paths))
	for i, p := range paths {
		devices = append(devices, chatter.DeviceInfo{ID: i + 1, Name: p.Name, Path: p.Path})
	}
	return devices, nil
}

func DeviceByID(devices []chatter.DeviceInfo, id int) (chatter.DeviceInfo, error) {
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	return chatter.DeviceInfo{}, fmt.Errorf("'%d' is %w", id, InvalidDeviceIDErr)
}

func PrintDevices(out io.Writer, devices []chatter.DeviceInfo) {
	for _, d := range devices {
		fmt.Fprintf(out, "%d: %s(%s)\n", d.ID, d.Name, d.Path)
	}
}

// PromptDevice lists the devices and reads the number of the wanted one.
func PromptDevice(in io.Reader, out io.Writer, devices []chatter.DeviceInfo) (chatter.DeviceInfo, error) {
	PrintDevices(out, devices)
	fmt.Fprint(out, "Select which device to use by number: ")
	var answer string
	if _, err := fmt.Fscan(in, &answer); err != nil {
		return chatter.DeviceInfo{}, fmt.Errorf("failed to read device selection: %w", err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return chatter.DeviceInfo{}, fmt.Errorf("%q is %w", answer, InvalidDeviceIDErr)
	}
	return DeviceByID(devices, id)
}

// LooksLikeKeyboard reports whether the device emits key repeats.
// At least on my laptop many devices can emit EV_KEY (power button, video
// bus). EV_REP is emitted only by keyboards.
func LooksLikeKeyboard(types []evdev.EvType) bool {
	return slices.Contains(types, evdev.EV_KEY) && slices.Contains(types, evdev.EV_REP)
}

// capableTypes opens the device read-only, listing needs no write access.
var capableTypes = func(path string) ([]evdev.EvType, error) {
	dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer dev.Close()
	return dev.CapableTypes(), nil
}

// Keyboards filters the devices which look like a keyboard. Devices which
// can't be opened are left out.
func Keyboards(devices []chatter.DeviceInfo) []chatter.DeviceInfo {
	var keyboards []chatter.DeviceInfo
	for _, d := range devices {
		types, err := capableTypes(d.Path)
		if err != nil {
			continue
		}
		if LooksLikeKeyboard(types) {
			keyboards = append(keyboards, d)
		}
	}
	return keyboards
}
