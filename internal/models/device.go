package models

import "time"

// Device is one converted remote-control library: the source document
// metadata plus its decoded commands in document order. Listing endpoints
// omit Commands and report CommandCount instead.
type Device struct {
	ID           int64     `json:"id,omitempty"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	FormatTag    string    `json:"format"`
	Frequency    int       `json:"frequency"` // Hz
	SourceFile   string    `json:"source_file"`
	OutputPath   string    `json:"output_path,omitempty"`
	CommandCount int       `json:"command_count"`
	ConvertedAt  time.Time `json:"converted_at,omitempty"`
	Commands     []Command `json:"commands,omitempty"`
}

// Command is one named signal inside a device. Type selects which field set
// is meaningful: parsed commands carry Protocol/Address/Command, raw ones
// carry Data/Frequency/DutyCycle.
type Command struct {
	ID        int64   `json:"id,omitempty"`
	Position  int     `json:"position"`
	Name      string  `json:"name"`
	Type      string  `json:"type"` // parsed | raw
	Protocol  string  `json:"protocol,omitempty"`
	Address   string  `json:"address,omitempty"`
	Command   string  `json:"command,omitempty"`
	Data      string  `json:"data,omitempty"`
	Frequency int     `json:"frequency,omitempty"` // Hz
	DutyCycle float64 `json:"duty_cycle,omitempty"`
}
