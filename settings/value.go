/*
Package settings stores system-wide configuration as typed key/value
pairs.

The reference data encoded every value as an opaque string and guessed
the type on read: "0"/"1" became booleans, strings starting with '{' or
'[' were tried as JSON, numeric-looking strings became int or float,
anything else stayed a string. That scheme is lossy - the literal
string "1" cannot be stored - so new writes carry an explicit kind tag.
DecodeLegacy keeps the old read contract byte for byte for rows
migrated in place.
*/
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the concrete type of a stored value.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindJSON   Kind = "json"
)

// Value is a tagged setting value.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	JSON  json.RawMessage
}

func Bool(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func Int(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func String(v string) Value  { return Value{Kind: KindString, Str: v} }
func JSON(raw []byte) Value  { return Value{Kind: KindJSON, JSON: json.RawMessage(raw)} }

// Encode renders the value in its wire form: "kind:payload". The legacy
// rows have no tag and are handled by Decode's fallback.
func (v Value) Encode() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "bool:1"
		}
		return "bool:0"
	case KindInt:
		return "int:" + strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return "float:" + strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindJSON:
		return "json:" + string(v.JSON)
	default:
		return "string:" + v.Str
	}
}

// Decode parses a wire-form value. Untagged input falls back to the
// legacy type-inferring contract.
func Decode(raw string) Value {
	kind, payload, ok := strings.Cut(raw, ":")
	if ok {
		switch Kind(kind) {
		case KindBool:
			return Bool(payload == "1")
		case KindInt:
			if n, err := strconv.ParseInt(payload, 10, 64); err == nil {
				return Int(n)
			}
		case KindFloat:
			if f, err := strconv.ParseFloat(payload, 64); err == nil {
				return Float(f)
			}
		case KindString:
			return String(payload)
		case KindJSON:
			if json.Valid([]byte(payload)) {
				return JSON([]byte(payload))
			}
		}
	}
	return DecodeLegacy(raw)
}

// DecodeLegacy applies the historical type-inference rules:
// "0"/"1" -> bool, leading '{'/'[' -> JSON when valid, numeric ->
// int (no '.') or float (with '.'), else the raw string.
func DecodeLegacy(raw string) Value {
	if raw == "1" || raw == "0" {
		return Bool(raw == "1")
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		if json.Valid([]byte(raw)) {
			return JSON([]byte(raw))
		}
	}
	if isNumeric(raw) {
		if strings.Contains(raw, ".") {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return Float(f)
			}
		} else if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(n)
		}
	}
	return String(raw)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// =============================================================================
// TYPED ACCESSORS
// =============================================================================

// AsBool coerces to bool; non-bool kinds use common-sense conversions.
func (v Value) AsBool(def bool) bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	default:
		return def
	}
}

func (v Value) AsInt(def int64) int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return int64(v.Float)
	default:
		return def
	}
}

func (v Value) AsFloat(def float64) float64 {
	switch v.Kind {
	case KindFloat:
		return v.Float
	case KindInt:
		return float64(v.Int)
	default:
		return def
	}
}

func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindJSON:
		return string(v.JSON)
	default:
		return ""
	}
}

// Interface returns the value as a plain Go value for JSON responses.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindJSON:
		var out any
		if err := json.Unmarshal(v.JSON, &out); err == nil {
			return out
		}
		return string(v.JSON)
	default:
		return v.Str
	}
}

// FromInterface converts a decoded JSON value into a tagged Value.
func FromInterface(raw any) (Value, error) {
	switch t := raw.(type) {
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t)), nil
		}
		return Float(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case map[string]any, []any:
		buf, err := json.Marshal(t)
		if err != nil {
			return Value{}, err
		}
		return JSON(buf), nil
	case nil:
		return String(""), nil
	default:
		return Value{}, fmt.Errorf("unsupported setting type %T", raw)
	}
}
