package signal

// SignalFormat identifies the encoding a source library declares for its
// button payloads. The set is closed: anything else decodes as unsupported
// rather than being guessed at.
type SignalFormat int

const (
	FormatUnknown SignalFormat = iota
	FormatWinLIRCRC5
	FormatWinLIRCNEC1
	FormatWinLIRCNECx1
	FormatWinLIRCRC6
	FormatWinLIRCRaw
	FormatWinLIRCRawT
	FormatProntoHex
	FormatYamahaNECHex
	FormatXiaomiIR
)

// Protocol names understood by the transmission side of the output format.
const (
	ProtocolRC5    = "RC5"
	ProtocolRC6    = "RC6"
	ProtocolNEC    = "NEC"
	ProtocolNECext = "NECext"
)

// ParseSignalFormat maps a declared format tag to its SignalFormat. Unknown
// tags map to FormatUnknown; the per-command decode reports them, so a bad
// tag never aborts a whole library.
func ParseSignalFormat(tag string) SignalFormat {
	switch tag {
	case "WINLIRC_RC5":
		return FormatWinLIRCRC5
	case "WINLIRC_NEC1":
		return FormatWinLIRCNEC1
	case "WINLIRC_NECx1":
		return FormatWinLIRCNECx1
	case "WINLIRC_RC6":
		return FormatWinLIRCRC6
	case "WINLIRC_RAW":
		return FormatWinLIRCRaw
	case "WINLIRC_RAW_T":
		return FormatWinLIRCRawT
	case "PRONTO_HEX":
		return FormatProntoHex
	case "YAMAHA_NEC_HEX":
		return FormatYamahaNECHex
	case "XIAOMI_IR":
		return FormatXiaomiIR
	default:
		return FormatUnknown
	}
}

func (f SignalFormat) String() string {
	switch f {
	case FormatWinLIRCRC5:
		return "WINLIRC_RC5"
	case FormatWinLIRCNEC1:
		return "WINLIRC_NEC1"
	case FormatWinLIRCNECx1:
		return "WINLIRC_NECx1"
	case FormatWinLIRCRC6:
		return "WINLIRC_RC6"
	case FormatWinLIRCRaw:
		return "WINLIRC_RAW"
	case FormatWinLIRCRawT:
		return "WINLIRC_RAW_T"
	case FormatProntoHex:
		return "PRONTO_HEX"
	case FormatYamahaNECHex:
		return "YAMAHA_NEC_HEX"
	case FormatXiaomiIR:
		return "XIAOMI_IR"
	default:
		return "UNKNOWN"
	}
}
