package runner

import (
	"encoding/json"
	"strconv"
)

// Sentinel status texts used when no HTTP status code is available.
const (
	StatusSentinelError       = "Error"
	StatusSentinelInvalidJSON = "Invalid JSON"
)

// Status is an HTTP status code when a response was received, or a
// sentinel text otherwise. It marshals as a number or a string to match
// the report formats.
type Status struct {
	Code int
	Text string
}

func StatusCode(code int) Status { return Status{Code: code} }

func StatusText(text string) Status { return Status{Text: text} }

func (s Status) String() string {
	if s.Code > 0 {
		return strconv.Itoa(s.Code)
	}
	return s.Text
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s.Code > 0 {
		return json.Marshal(s.Code)
	}
	return json.Marshal(s.Text)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*s = Status{Code: code}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*s = Status{Text: text}
	return nil
}

// HTTPError reports a response with a non-2xx status code.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return "request failed with status code " + strconv.Itoa(e.StatusCode)
}

// ResultRecord is the normalized outcome of one executed call. Exactly one
// of Data/Err is populated, gated by Success. Records are never mutated
// after creation; re-running a category replaces its records wholesale.
type ResultRecord struct {
	Name    string          `json:"name"`
	Status  Status          `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Err     string          `json:"error,omitempty"`
}
