package signal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command kinds carried by Decoded.Kind.
const (
	KindParsed = "parsed"
	KindRaw    = "raw"
)

// DutyCycleRaw is attached to every raw pulse-timing result. The source
// formats never carry a duty cycle, so the output uses this fixed value.
const DutyCycleRaw = 0.33

var (
	// ErrUnsupportedFormat reports a format outside the recognized set.
	ErrUnsupportedFormat = errors.New("unsupported signal format")
	// ErrBadPayload reports button text that does not match its declared format.
	ErrBadPayload = errors.New("malformed signal payload")
)

// Decoded is the normalized result of decoding one button payload. Exactly
// one variant is populated: parsed commands carry Protocol, Address and
// Command; raw commands carry Data, Frequency and DutyCycle.
type Decoded struct {
	Kind      string
	Protocol  string
	Address   string
	Command   string
	Data      string
	Frequency int
	DutyCycle float64
}

// Decode normalizes one button payload declared as format f. The frequency
// is the owning device's carrier and only flows into raw results; parsed
// protocols carry their own timing on the transmit side.
func Decode(f SignalFormat, payload string, frequency int) (Decoded, error) {
	switch f {
	case FormatWinLIRCRC5:
		v, err := parseHexWord(payload)
		if err != nil {
			return Decoded{}, err
		}
		return parsedResult(ProtocolRC5, (v&0xff00)>>8, v&0xff), nil
	case FormatWinLIRCNEC1, FormatWinLIRCNECx1:
		addr, cmd, err := parseHexPair(payload)
		if err != nil {
			return Decoded{}, err
		}
		return parsedResult(ProtocolNECext, addr, cmd), nil
	case FormatWinLIRCRC6:
		addr, cmd, err := parseHexPair(payload)
		if err != nil {
			return Decoded{}, err
		}
		return parsedResult(ProtocolRC6, addr, cmd), nil
	case FormatXiaomiIR:
		addr, cmd, err := parseHexPair(payload)
		if err != nil {
			return Decoded{}, err
		}
		return parsedResult(ProtocolNEC, addr, cmd), nil
	case FormatYamahaNECHex:
		v, err := yamahaNECValue(payload)
		if err != nil {
			return Decoded{}, err
		}
		return parsedResult(ProtocolNECext, (v>>16)&0xffff, v&0xffff), nil
	case FormatWinLIRCRaw, FormatWinLIRCRawT:
		if !isASCII(payload) {
			return Decoded{}, fmt.Errorf("%w: raw pulse data contains non-ASCII bytes", ErrBadPayload)
		}
		return rawResult(payload, frequency), nil
	case FormatProntoHex:
		pulses, err := DecodePronto(payload)
		if err != nil {
			return Decoded{}, err
		}
		return rawResult(strings.Join(pulses, " "), frequency), nil
	default:
		return Decoded{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f.String())
	}
}

func parsedResult(protocol string, address, command uint32) Decoded {
	return Decoded{
		Kind:     KindParsed,
		Protocol: protocol,
		Address:  leHex32(address),
		Command:  leHex32(command),
	}
}

func rawResult(data string, frequency int) Decoded {
	return Decoded{
		Kind:      KindRaw,
		Data:      data,
		Frequency: frequency,
		DutyCycle: DutyCycleRaw,
	}
}

// leHex32 renders v as its four little-endian bytes in uppercase hex pairs,
// e.g. 0x00A1 becomes "A1 00 00 00".
func leHex32(v uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return fmt.Sprintf("%02X %02X %02X %02X", b[0], b[1], b[2], b[3])
}

// parseHexWord expects exactly one whitespace-separated hex token.
func parseHexWord(payload string) (uint32, error) {
	fields := strings.Fields(payload)
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: want one hex token, got %d", ErrBadPayload, len(fields))
	}
	return hexToken(fields[0])
}

// parseHexPair expects exactly two whitespace-separated hex tokens:
// address then command.
func parseHexPair(payload string) (addr, cmd uint32, err error) {
	fields := strings.Fields(payload)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: want two hex tokens, got %d", ErrBadPayload, len(fields))
	}
	if addr, err = hexToken(fields[0]); err != nil {
		return 0, 0, err
	}
	if cmd, err = hexToken(fields[1]); err != nil {
		return 0, 0, err
	}
	return addr, cmd, nil
}

func hexToken(tok string) (uint32, error) {
	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a 32-bit hex value", ErrBadPayload, tok)
	}
	return uint32(v), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
