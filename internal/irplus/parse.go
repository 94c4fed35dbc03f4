// Package irplus reads remote-control library documents: XML files that
// carry either a device with its buttons or a link to another document.
package irplus

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoDevice reports a document with neither a device nor a linked element.
var ErrNoDevice = errors.New("document has no device or linked element")

// Document is the parsed shape of one source file. Device wins when both a
// device and a linked element are present.
type Document struct {
	Device  *Device
	Linked  *Linked
	Buttons []Button
}

// Device mirrors the device element attributes. Frequency stays textual
// here: the converter decides what an absent or unusable value falls back to.
type Device struct {
	Manufacturer string
	Model        string
	Format       string
	Frequency    string
}

// Linked points at another document that carries the real content.
type Linked struct {
	Asset string
}

// Button is one button element: its name candidates and raw payload text.
// Alt and Label are nil when the attribute is absent, which is distinct
// from present-but-empty; an absent name skips the button while an empty
// one falls back to a placeholder.
type Button struct {
	Alt   *string
	Label *string
	Data  string
}

// Parse walks the document tokens and collects the first device element,
// the first linked element and every button in document order. The walk is
// deliberately lenient about the surrounding tree: libraries in the wild
// wrap these elements in varying parents.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	doc := &Document{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch strings.ToLower(start.Name.Local) {
		case "device":
			if doc.Device == nil {
				doc.Device = &Device{
					Manufacturer: attrValue(start.Attr, "manufacturer"),
					Model:        attrValue(start.Attr, "model"),
					Format:       attrValue(start.Attr, "format"),
					Frequency:    attrValue(start.Attr, "frequency"),
				}
			}
		case "linked":
			if doc.Linked == nil {
				doc.Linked = &Linked{Asset: attrValue(start.Attr, "asset")}
			}
		case "button":
			btn, err := readButton(dec, start)
			if err != nil {
				return nil, fmt.Errorf("scan button: %w", err)
			}
			doc.Buttons = append(doc.Buttons, btn)
		}
	}

	if doc.Device == nil && doc.Linked == nil {
		return nil, ErrNoDevice
	}
	return doc, nil
}

// readButton consumes tokens up to the matching end element, accumulating
// character data across any nested markup. An unterminated button keeps
// whatever text it collected before the document ended.
func readButton(dec *xml.Decoder, start xml.StartElement) (Button, error) {
	btn := Button{
		Alt:   attrPtr(start.Attr, "alt"),
		Label: attrPtr(start.Attr, "label"),
	}

	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Button{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			text.Write(t)
		}
	}
	btn.Data = strings.TrimSpace(text.String())
	return btn, nil
}

func attrPtr(attrs []xml.Attr, name string) *string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name.Local, name) {
			v := a.Value
			return &v
		}
	}
	return nil
}

func attrValue(attrs []xml.Attr, name string) string {
	if p := attrPtr(attrs, name); p != nil {
		return *p
	}
	return ""
}
