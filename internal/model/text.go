package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Text is an upstream field kept as its literal text. The roster API is not
// consistent about quoting, so both JSON strings and JSON numbers decode into
// Text. A missing or null field leaves Valid false.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present Text holding s.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode text")
		}
		*t = NewText(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return eris.Wrap(err, "model: decode numeric text")
		}
		*t = NewText(n.String())
	default:
		return eris.Errorf("model: text field must be a string or number, got %s", string(data))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// String returns the literal value, or "" when absent.
func (t Text) String() string {
	return t.Value
}
