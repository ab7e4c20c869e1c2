package value

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/wippyai/flatdyn/errors"
)

// ParseYAML decodes a YAML document. JSON documents parse too, since YAML
// is a superset, but ParseJSON keeps large integers exact.
func ParseYAML(data []byte) (Value, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.ParseFailed("yaml value", err)
	}
	return Of(out), nil
}

// ParseJSON decodes a JSON document, keeping numbers as json.Number.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.ParseFailed("json value", err)
	}
	return Of(out), nil
}

// Parse tries ParseJSON when the document starts with '{' or '[' and
// ParseYAML otherwise. Flow-style YAML such as {x: 1} is not JSON and
// falls back to ParseYAML.
func Parse(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		v, err := ParseJSON(trimmed)
		if err == nil {
			return v, nil
		}
		if v, yerr := ParseYAML(trimmed); yerr == nil {
			return v, nil
		}
		return nil, err
	}
	return ParseYAML(data)
}
