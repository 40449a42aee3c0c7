package source

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
)

// Decode parses data by the extension of name: .json, .yaml, .yml or
// .toml. Other names are tried as JSON, then YAML. The top level must be
// an object.
func Decode(name string, b []byte) (map[string]any, error) {
	var (
		out map[string]any
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		out, err = decodeJSON(b)
	case ".yaml", ".yml":
		out, err = decodeYAML(b)
	case ".toml":
		out, err = decodeTOML(b)
	default:
		if out, err = decodeJSON(b); err != nil {
			out, err = decodeYAML(b)
		}
	}
	if err != nil {
		return nil, errors.New(errors.CodeSourceDecode).WithWhere(name).Wrap(err)
	}
	if out == nil {
		return map[string]any{}, nil
	}
	return normalize(out).(map[string]any), nil
}

func decodeJSON(b []byte) (map[string]any, error) {
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeYAML(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeTOML(b []byte) (map[string]any, error) {
	var out map[string]any
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize rewrites decoder-specific container types into map[string]any
// and []any, the shapes the reactive store observes.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[toKey(k)] = normalize(e)
		}
		return m
	case []map[string]any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = normalize(e)
		}
		return s
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	}
	return v
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}
