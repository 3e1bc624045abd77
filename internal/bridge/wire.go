package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a command frame sent to the host.
type Request struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Args    Args   `json:"args,omitempty"`
}

// Response is the host's reply to a Request with the same ID.
type Response struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// malformed marks a frame that carried an ID but did not decode.
	malformed bool
}

// decodeResponse parses a frame. A frame whose body is broken but whose ID can
// still be read is returned marked malformed so the waiting call fails fast.
func decodeResponse(data []byte) (Response, error) {
	var resp Response
	err := json.Unmarshal(data, &resp)
	if err == nil {
		return resp, nil
	}
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal(data, &head) == nil {
		var id string
		if json.Unmarshal(head.ID, &id) == nil && id != "" {
			return Response{ID: id, malformed: true}, err
		}
	}
	return Response{}, err
}

func (r Response) result(command string) (json.RawMessage, error) {
	if r.malformed {
		return nil, fmt.Errorf("%w: frame for %s", ErrMalformedResult, command)
	}
	if !r.Success {
		return nil, &CommandError{Command: command, Message: strings.TrimSpace(r.Error)}
	}
	if len(r.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return r.Data, nil
}
