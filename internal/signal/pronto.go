package signal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// prontoPeriodUnit turns the pronto clock word into a carrier frequency:
// frequency = 1 / (clock * prontoPeriodUnit), in cycles per microsecond.
const prontoPeriodUnit = 0.241246

// DecodePronto expands a learned-signal pronto hex code into pulse widths in
// microseconds, one decimal string per burst, in signal order. The code must
// start with the learned-signal marker 0000 and its word count must match
// the burst-pair and repeat-pair counts in the preamble.
func DecodePronto(code string) ([]string, error) {
	fields := strings.Fields(code)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: pronto code needs a four-word preamble", ErrBadPayload)
	}
	words := make([]uint64, len(fields))
	for i, f := range fields {
		w, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: pronto word %q is not hex", ErrBadPayload, f)
		}
		words[i] = w
	}
	if words[0] != 0 {
		return nil, fmt.Errorf("%w: pronto code does not start with 0000", ErrBadPayload)
	}
	if words[1] == 0 {
		return nil, fmt.Errorf("%w: pronto clock word is zero", ErrBadPayload)
	}
	if uint64(len(words)) != 4+2*(words[2]+words[3]) {
		return nil, fmt.Errorf("%w: pulse count does not match the pronto preamble", ErrBadPayload)
	}

	frequency := 1 / (float64(words[1]) * prontoPeriodUnit)
	pulses := make([]string, 0, len(words)-4)
	for _, w := range words[4:] {
		micros := int(math.Round(float64(w) / frequency))
		pulses = append(pulses, strconv.Itoa(micros))
	}
	return pulses, nil
}
