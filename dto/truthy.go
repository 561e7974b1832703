package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Truthy decodes any JSON value using JavaScript truthiness: false, 0, "", and null are
// false; everything else is true.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = false
		return nil
	}

	switch data[0] {
	case 'n', 'f':
		*t = false
	case 't', '[', '{':
		*t = true
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = s != ""
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*t = f != 0
	}
	return nil
}

func (t Truthy) Bool() bool {
	return bool(t)
}
