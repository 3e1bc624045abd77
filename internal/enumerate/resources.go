package enumerate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jask/shellbridge/internal/bridge"
)

// Device is the display string of a connected input peripheral.
type Device string

// Printer is one row of the printer table.
type Printer struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"`
}

// DecodeDevices accepts an array of strings or of objects carrying a name.
// null decodes to an empty list.
func DecodeDevices(raw json.RawMessage) ([]Device, error) {
	elems, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(elems))
	for i, elem := range elems {
		var s string
		if json.Unmarshal(elem, &s) == nil {
			out = append(out, Device(s))
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(elem, &obj) != nil {
			return nil, fmt.Errorf("%w: device %d is neither text nor record", bridge.ErrMalformedResult, i)
		}
		name := field(obj, "name")
		if name == "" {
			return nil, fmt.Errorf("%w: device %d has no name", bridge.ErrMalformedResult, i)
		}
		out = append(out, Device(name))
	}
	return out, nil
}

// DecodePrinters accepts bare names, printer records (either key casing), a
// single record instead of an array, and numeric ports encoded as strings.
func DecodePrinters(raw json.RawMessage) ([]Printer, error) {
	elems, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Printer, 0, len(elems))
	for i, elem := range elems {
		var s string
		if json.Unmarshal(elem, &s) == nil {
			out = append(out, Printer{Name: s})
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(elem, &obj) != nil {
			return nil, fmt.Errorf("%w: printer %d is neither text nor record", bridge.ErrMalformedResult, i)
		}
		p := Printer{
			Name:      field(obj, "name"),
			IPAddress: field(obj, "ip_address"),
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: printer %d has no name", bridge.ErrMalformedResult, i)
		}
		if p.Port, err = port(obj); err != nil {
			return nil, fmt.Errorf("%w: printer %d: %v", bridge.ErrMalformedResult, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// decodeList splits raw into elements. A lone object is treated as a one-element list.
func decodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '{' {
		return []json.RawMessage{trimmed}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: expected a list", bridge.ErrMalformedResult)
	}
	return elems, nil
}

// lookup returns the values stored under key: the exact key first, then any
// other casing in sorted key order, so duplicates resolve the same way every time.
func lookup(obj map[string]json.RawMessage, key string) []json.RawMessage {
	var out []json.RawMessage
	if v, ok := obj[key]; ok {
		out = append(out, v)
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if k != key && strings.EqualFold(k, key) {
			out = append(out, obj[k])
		}
	}
	return out
}

// field reads a string field by key, ignoring case so "Name" and "name" both match.
func field(obj map[string]json.RawMessage, key string) string {
	for _, v := range lookup(obj, key) {
		var s string
		if json.Unmarshal(v, &s) == nil {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

const maxPort = 65535

// port reads the port as a number or numeric string. Integral floats such as
// 9100.0 are accepted; fractions and values outside 0..65535 are not.
func port(obj map[string]json.RawMessage) (int, error) {
	vals := lookup(obj, "port")
	if len(vals) == 0 {
		return 0, nil
	}
	v := vals[0]
	var f float64
	if json.Unmarshal(v, &f) != nil {
		var s string
		if json.Unmarshal(v, &s) != nil {
			return 0, fmt.Errorf("port %s is not a number", string(v))
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, fmt.Errorf("port %q is not a number", s)
		}
	}
	if f != math.Trunc(f) || f < 0 || f > maxPort {
		return 0, fmt.Errorf("port %s out of range", string(v))
	}
	return int(f), nil
}
