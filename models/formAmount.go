package models

import (
	"bytes"
	"encoding/json"
)

// FormAmount is an amount exactly as typed into the giving form. The page
// may post it as a JSON number or as a string.
type FormAmount string

func (a *FormAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = FormAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = FormAmount(n.String())
	return nil
}
