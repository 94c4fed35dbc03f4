package signal

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSignalFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	tags := []string{
		"WINLIRC_RC5",
		"WINLIRC_NEC1",
		"WINLIRC_NECx1",
		"WINLIRC_RC6",
		"WINLIRC_RAW",
		"WINLIRC_RAW_T",
		"PRONTO_HEX",
		"YAMAHA_NEC_HEX",
		"XIAOMI_IR",
	}
	for _, tag := range tags {
		f := ParseSignalFormat(tag)
		if f == FormatUnknown {
			t.Fatalf("tag %q parsed as unknown", tag)
		}
		if got := f.String(); got != tag {
			t.Fatalf("String() = %q, want %q", got, tag)
		}
	}

	if got := ParseSignalFormat("WINLIRC_SONY"); got != FormatUnknown {
		t.Fatalf("unrecognized tag parsed as %v", got)
	}
	if got := FormatUnknown.String(); got != "UNKNOWN" {
		t.Fatalf("FormatUnknown.String() = %q", got)
	}
}

func TestDecode_ParsedProtocols(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		format   SignalFormat
		payload  string
		protocol string
		address  string
		command  string
	}{
		{
			name:     "rc5 single byte",
			format:   FormatWinLIRCRC5,
			payload:  "11",
			protocol: ProtocolRC5,
			address:  "00 00 00 00",
			command:  "11 00 00 00",
		},
		{
			name:     "rc5 packs address in second byte",
			format:   FormatWinLIRCRC5,
			payload:  "1FDE",
			protocol: ProtocolRC5,
			address:  "1F 00 00 00",
			command:  "DE 00 00 00",
		},
		{
			name:     "rc5 zero value renders all zero bytes",
			format:   FormatWinLIRCRC5,
			payload:  "0",
			protocol: ProtocolRC5,
			address:  "00 00 00 00",
			command:  "00 00 00 00",
		},
		{
			name:     "nec1 maps to extended nec",
			format:   FormatWinLIRCNEC1,
			payload:  "A1 4",
			protocol: ProtocolNECext,
			address:  "A1 00 00 00",
			command:  "04 00 00 00",
		},
		{
			name:     "necx1 maps to extended nec",
			format:   FormatWinLIRCNECx1,
			payload:  "7 7",
			protocol: ProtocolNECext,
			address:  "07 00 00 00",
			command:  "07 00 00 00",
		},
		{
			name:     "rc6 keeps its protocol name",
			format:   FormatWinLIRCRC6,
			payload:  "0 C",
			protocol: ProtocolRC6,
			address:  "00 00 00 00",
			command:  "0C 00 00 00",
		},
		{
			name:     "xiaomi maps to plain nec",
			format:   FormatXiaomiIR,
			payload:  "FF 1A",
			protocol: ProtocolNEC,
			address:  "FF 00 00 00",
			command:  "1A 00 00 00",
		},
		{
			name:     "yamaha frame in transmission order",
			format:   FormatYamahaNECHex,
			payload:  "5EA17A85",
			protocol: ProtocolNECext,
			address:  "5E A1 00 00",
			command:  "7A 85 00 00",
		},
		{
			name:     "yamaha frame tolerates spacing",
			format:   FormatYamahaNECHex,
			payload:  " 5E A1 7A 85 ",
			protocol: ProtocolNECext,
			address:  "5E A1 00 00",
			command:  "7A 85 00 00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tc.format, tc.payload, 38000)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Kind != KindParsed {
				t.Fatalf("Kind = %q, want %q", got.Kind, KindParsed)
			}
			if got.Protocol != tc.protocol || got.Address != tc.address || got.Command != tc.command {
				t.Fatalf("got %s %s / %s, want %s %s / %s",
					got.Protocol, got.Address, got.Command, tc.protocol, tc.address, tc.command)
			}
			if got.Data != "" || got.Frequency != 0 || got.DutyCycle != 0 {
				t.Fatalf("parsed result carries raw fields: %+v", got)
			}
		})
	}
}

func TestDecode_RawPassthrough(t *testing.T) {
	t.Parallel()

	const payload = "9000 4500 560 560 560 1690"
	for _, format := range []SignalFormat{FormatWinLIRCRaw, FormatWinLIRCRawT} {
		got, err := Decode(format, payload, 36000)
		if err != nil {
			t.Fatalf("Decode(%v): %v", format, err)
		}
		if got.Kind != KindRaw {
			t.Fatalf("Kind = %q, want %q", got.Kind, KindRaw)
		}
		if got.Data != payload {
			t.Fatalf("Data = %q, want payload unchanged", got.Data)
		}
		if got.Frequency != 36000 {
			t.Fatalf("Frequency = %d, want device carrier 36000", got.Frequency)
		}
		if got.DutyCycle != DutyCycleRaw {
			t.Fatalf("DutyCycle = %v, want %v", got.DutyCycle, DutyCycleRaw)
		}
		if got.Protocol != "" || got.Address != "" || got.Command != "" {
			t.Fatalf("raw result carries parsed fields: %+v", got)
		}
	}
}

func TestDecode_ProntoProducesMicrosecondData(t *testing.T) {
	t.Parallel()

	const code = "0000 006D 0002 0001 0156 00AB 0016 0041 0016 05F7"
	got, err := Decode(FormatProntoHex, code, 40000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Kind != KindRaw {
		t.Fatalf("Kind = %q, want %q", got.Kind, KindRaw)
	}
	if want := "8993 4497 579 1709 579 40154"; got.Data != want {
		t.Fatalf("Data = %q, want %q", got.Data, want)
	}
	// the device carrier wins over the pronto clock word
	if got.Frequency != 40000 {
		t.Fatalf("Frequency = %d, want 40000", got.Frequency)
	}
	if got.DutyCycle != DutyCycleRaw {
		t.Fatalf("DutyCycle = %v, want %v", got.DutyCycle, DutyCycleRaw)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		format  SignalFormat
		payload string
		wantErr error
	}{
		{"unknown format", FormatUnknown, "11", ErrUnsupportedFormat},
		{"rc5 non hex", FormatWinLIRCRC5, "ZZ", ErrBadPayload},
		{"rc5 too many tokens", FormatWinLIRCRC5, "11 22", ErrBadPayload},
		{"rc5 empty payload", FormatWinLIRCRC5, "  ", ErrBadPayload},
		{"nec1 missing command token", FormatWinLIRCNEC1, "A1", ErrBadPayload},
		{"nec1 non hex command", FormatWinLIRCNEC1, "A1 ZZ", ErrBadPayload},
		{"nec1 value too wide", FormatWinLIRCNEC1, "1FFFFFFFF 04", ErrBadPayload},
		{"raw non ascii", FormatWinLIRCRaw, "9000 45é0 560", ErrBadPayload},
		{"pronto truncated", FormatProntoHex, "0000 006D 0002 0001 0156", ErrBadPayload},
		{"yamaha short frame", FormatYamahaNECHex, "5EA17A", ErrBadPayload},
		{"yamaha non hex frame", FormatYamahaNECHex, "XXYYZZWW", ErrBadPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tc.format, tc.payload, 38000)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecode_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []struct {
		format  SignalFormat
		payload string
	}{
		{FormatWinLIRCRC5, "1FDE"},
		{FormatProntoHex, "0000 006D 0002 0001 0156 00AB 0016 0041 0016 05F7"},
		{FormatYamahaNECHex, "5EA17A85"},
	}
	for _, in := range inputs {
		first, err := Decode(in.format, in.payload, 38000)
		if err != nil {
			t.Fatalf("Decode(%v): %v", in.format, err)
		}
		second, err := Decode(in.format, in.payload, 38000)
		if err != nil {
			t.Fatalf("Decode(%v) second pass: %v", in.format, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("decode is not deterministic: %+v vs %+v", first, second)
		}
	}
}
