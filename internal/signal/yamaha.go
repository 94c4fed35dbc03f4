package signal

import (
	"fmt"
	"strconv"
	"strings"
)

// yamahaNECValue unpacks a vendor NEC payload into a single 32-bit value
// holding the extended-NEC address in the high half and the command in the
// low half. The payload is the NEC frame in transmission byte order
// (address low, address high, command, command-inverse), eight hex digits
// with optional whitespace. The fourth byte is kept verbatim rather than
// checked: extended frames use it as a second command byte.
func yamahaNECValue(payload string) (uint32, error) {
	compact := strings.Join(strings.Fields(payload), "")
	if len(compact) != 8 {
		return 0, fmt.Errorf("%w: vendor NEC frame must be 8 hex digits, got %d", ErrBadPayload, len(compact))
	}
	frame, err := strconv.ParseUint(compact, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: vendor NEC frame %q is not hex", ErrBadPayload, compact)
	}

	b0 := uint32(frame>>24) & 0xff // address low
	b1 := uint32(frame>>16) & 0xff // address high
	b2 := uint32(frame>>8) & 0xff  // command low
	b3 := uint32(frame) & 0xff     // command high

	address := b0 | b1<<8
	command := b2 | b3<<8
	return address<<16 | command, nil
}
