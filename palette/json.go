package palette

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON accepts either an {"r","g","b"} object or a CSS color string.
func (c *RGB) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(`"`)) {
		var s string
		if e := json.Unmarshal(b, &s); e != nil {
			return e
		}
		v, e := CSSToRGB(s)
		if e != nil {
			return e
		}
		*c = v
		return nil
	}

	type plain RGB
	var v plain
	if e := json.Unmarshal(b, &v); e != nil {
		return e
	}
	*c = RGB(v)
	return nil
}
