package places

import (
	"bytes"
	"encoding/json"
)

// rateValue accepts the detail rating as either a JSON string ("3h") or a
// number (3).
type rateValue string

func (r *rateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = rateValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = rateValue(n.String())
	return nil
}
