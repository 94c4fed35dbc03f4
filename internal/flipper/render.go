// Package flipper renders converted devices as flat IR signal files.
package flipper

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"irforge/internal/models"
)

// FileExtension is the suffix of every generated signal file.
const FileExtension = ".ir"

// Render produces the complete signal-file text for a device. The layout is
// consumed verbatim by other tooling, so field names, separators and line
// order must not change.
func Render(dev models.Device) string {
	var b strings.Builder
	b.WriteString("Filetype: IR signals file\n")
	b.WriteString("Version: 1\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# %s %s\n", dev.Manufacturer, dev.Model)
	fmt.Fprintf(&b, "# Autogenerated from %s\n", dev.SourceFile)

	for _, cmd := range dev.Commands {
		b.WriteString("#\n")
		fmt.Fprintf(&b, "name: %s\n", cmd.Name)
		if cmd.Protocol != "" {
			fmt.Fprintf(&b, "protocol: %s\n", cmd.Protocol)
			fmt.Fprintf(&b, "address: %s\n", cmd.Address)
			fmt.Fprintf(&b, "command: %s\n", cmd.Command)
			continue
		}
		fmt.Fprintf(&b, "type: %s\n", cmd.Type)
		fmt.Fprintf(&b, "frequency: %d\n", cmd.Frequency)
		fmt.Fprintf(&b, "duty_cycle: %s\n", strconv.FormatFloat(cmd.DutyCycle, 'g', -1, 64))
		fmt.Fprintf(&b, "data: %s\n", cmd.Data)
	}
	return b.String()
}

// OutputPath builds <root>/<manufacturer>/<model>.ir. The model is expected
// to be path-safe already; separator characters are replaced when the device
// record is built.
func OutputPath(root string, dev models.Device) string {
	return filepath.Join(root, dev.Manufacturer, dev.Model+FileExtension)
}
