package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbaas/mbaas.go/pkg/constants"
)

// ValueOf converts a decoded wire value or a plain Go value into a Value.
//
// Maps tagged with "__type" become Date, GeoPoint or Pointer, maps tagged with a
// relation "__op" become RelationEdit. Maps with unknown or malformed tags stay Map.
// Numbers decoded with UseNumber keep their integer-ness.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return Float(val), nil
		}
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		return numberValue(string(val))
	case time.Time:
		return Date{Time: val}, nil
	case []string:
		return Strings(val...), nil
	case []any:
		out := make(Array, 0, len(val))
		for _, item := range val {
			iv, err := ValueOf(item)
			if err != nil {
				return nil, err
			}
			out = append(out, iv)
		}
		return out, nil
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: map key %T", constants.ErrUnsupportedValue, k)
			}
			m[key] = item
		}
		return mapValue(m)
	case map[string]any:
		return mapValue(val)
	default:
		return nil, fmt.Errorf("%w: %T", constants.ErrUnsupportedValue, v)
	}
}

// ValuesOf converts every entry of a decoded object.
func ValuesOf(raw map[string]any) (map[string]Value, error) {
	out := make(map[string]Value, len(raw))
	for k, v := range raw {
		val, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func numberValue(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q", constants.ErrUnsupportedValue, s)
	}
	return Float(f), nil
}

// mapValue decodes a tagged map into its typed Value. A tag whose payload does
// not decode leaves the map as a plain Map.
func mapValue(m map[string]any) (Value, error) {
	if t, ok := m[constants.KeyType].(string); ok {
		switch t {
		case typeDate:
			if iso, ok := m[constants.KeyIso].(string); ok {
				if d, err := ParseDate(iso); err == nil {
					return d, nil
				}
			}
		case typeGeoPoint:
			lat, latOK := toFloat(m[constants.KeyLatitude])
			lng, lngOK := toFloat(m[constants.KeyLongitude])
			if latOK && lngOK {
				return NewGeoPoint(lat, lng), nil
			}
		case typePointer:
			if p, ok := pointerOf(m); ok {
				return p, nil
			}
		}
	}

	if op, ok := m[constants.KeyOp].(string); ok {
		switch RelationOp(op) {
		case AddRelation, RemoveRelation:
			if edit, ok := relationOf(RelationOp(op), m); ok {
				return edit, nil
			}
		}
	}

	out := make(Map, len(m))
	for k, item := range m {
		v, err := ValueOf(item)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func pointerOf(m map[string]any) (Pointer, bool) {
	className, _ := m[constants.KeyClassName].(string)
	objectID, _ := m[constants.FieldObjectID].(string)
	if className == "" || objectID == "" {
		return Pointer{}, false
	}
	return NewPointer(className, objectID), true
}

func relationOf(op RelationOp, m map[string]any) (RelationEdit, bool) {
	edit := RelationEdit{Op: op}
	objects, _ := m[constants.KeyObjects].([]any)
	for _, o := range objects {
		om, ok := o.(map[string]any)
		if !ok {
			return RelationEdit{}, false
		}
		p, ok := pointerOf(om)
		if !ok {
			return RelationEdit{}, false
		}
		if edit.TargetKind == "" {
			edit.TargetKind = p.ClassName
		}
		edit.Objects = append(edit.Objects, p)
	}
	return edit, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
