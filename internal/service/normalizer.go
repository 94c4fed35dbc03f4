package service

import (
	"errors"
	"strings"

	"irforge/internal/irplus"
	"irforge/internal/models"
	"irforge/internal/signal"
)

// placeholderName stands in when stripping leaves nothing printable.
const placeholderName = "Unknown"

var errMissingName = errors.New("button has neither alt nor label")

// normalizeCommand turns one source button into a catalog command. Buttons
// without any name and buttons whose payload fails to decode are rejected.
func normalizeCommand(btn irplus.Button, format signal.SignalFormat, frequency int) (models.Command, error) {
	name, err := commandName(btn)
	if err != nil {
		return models.Command{}, err
	}

	dec, err := signal.Decode(format, btn.Data, frequency)
	if err != nil {
		return models.Command{}, err
	}

	return models.Command{
		Name:      name,
		Type:      dec.Kind,
		Protocol:  dec.Protocol,
		Address:   dec.Address,
		Command:   dec.Command,
		Data:      dec.Data,
		Frequency: dec.Frequency,
		DutyCycle: dec.DutyCycle,
	}, nil
}

// commandName picks alt over label, mirrors the remote layouts where alt is
// the curated name, and reduces the result to printable ASCII.
func commandName(btn irplus.Button) (string, error) {
	var raw string
	switch {
	case btn.Alt != nil:
		raw = *btn.Alt
	case btn.Label != nil:
		raw = *btn.Label
	default:
		return "", errMissingName
	}

	name := strings.TrimSpace(stripNonASCII(raw))
	if name == "" {
		return placeholderName, nil
	}
	return name, nil
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
