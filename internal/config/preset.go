package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen"
)

// ErrInvalidPreset is wrapped by every preset that fails to parse or
// validate.
var ErrInvalidPreset = errors.New("invalid preset")

//go:embed preset.schema.json
var presetSchema []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("preset.schema.json", bytes.NewReader(presetSchema)); err != nil {
		return nil, fmt.Errorf("add preset schema: %w", err)
	}
	return c.Compile("preset.schema.json")
})

// LoadPreset reads a YAML or JSON preset file.
func LoadPreset(path string) (*gen.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	s, err := ParsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParsePreset decodes a preset over DefaultSettings: keys the preset omits
// keep their default. The document is checked against the preset schema
// before decoding and the result must pass Settings.Validate.
func ParsePreset(data []byte) (*gen.Settings, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrInvalidPreset, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	v, err := jsonValue(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile preset schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}

	s := gen.DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidPreset, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	return s, nil
}

// jsonValue converts a decoded YAML tree into the value types the schema
// validator accepts. Infinite heights are legal in presets but carry no
// schema constraint, so they validate as the largest finite float.
func jsonValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, string:
		return v, nil
	case int:
		return json.Number(strconv.Itoa(v)), nil
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(v, 10)), nil
	case float64:
		switch {
		case math.IsNaN(v):
			return nil, fmt.Errorf("NaN is not a valid number")
		case math.IsInf(v, 1):
			v = math.MaxFloat64
		case math.IsInf(v, -1):
			v = -math.MaxFloat64
		}
		return json.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			c, err := jsonValue(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			c, err := jsonValue(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %v of type %T", v, v)
}
