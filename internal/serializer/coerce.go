package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Clark-Hu/catalog-api/internal/schema"
)

const (
	// DateLayout is the wire format for dates.
	DateLayout = "2006-01-02"
	// TimestampLayout is the wire format for timestamps, always rendered in UTC.
	TimestampLayout = time.RFC3339Nano
)

func invalid(field, format string, args ...any) error {
	return &FieldValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (s *Serializer) coerce(ctx context.Context, f schema.Field, raw any) (any, error) {
	if raw == nil {
		return nil, invalid(f.Name, "this field may not be null")
	}

	switch f.Type {
	case schema.TypeText:
		return coerceText(f, raw)
	case schema.TypeDate:
		return coerceDate(f, raw)
	case schema.TypeTimestamp:
		return coerceTimestamp(f, raw)
	case schema.TypeInteger:
		return coerceInteger(f, raw)
	case schema.TypeBool:
		return coerceBool(f, raw)
	case schema.TypeRef, schema.TypeOneToOne:
		id, ok := toInt64(raw)
		if !ok || id <= 0 {
			return nil, invalid(f.Name, "incorrect type, expected pk value")
		}
		if err := s.mustExist(ctx, f, id); err != nil {
			return nil, err
		}
		return id, nil
	case schema.TypeRefSet:
		return s.coerceRefSet(ctx, f, raw)
	default:
		return nil, fmt.Errorf("serializer: field %s has unsupported type %s", f.Name, f.Type)
	}
}

func coerceText(f schema.Field, raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, invalid(f.Name, "not a valid string")
	}
	str = strings.TrimSpace(str)
	if str == "" {
		if f.Required {
			return nil, invalid(f.Name, "this field may not be blank")
		}
		return str, nil
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(str) > f.MaxLength {
		return nil, invalid(f.Name, "ensure this field has no more than %d characters", f.MaxLength)
	}
	return str, nil
}

func coerceDate(f schema.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC().Truncate(24 * time.Hour), nil
	case string:
		d, err := time.Parse(DateLayout, strings.TrimSpace(v))
		if err != nil {
			return nil, invalid(f.Name, "date has wrong format, use YYYY-MM-DD")
		}
		return d, nil
	default:
		return nil, invalid(f.Name, "date has wrong format, use YYYY-MM-DD")
	}
}

func coerceTimestamp(f schema.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			return nil, invalid(f.Name, "datetime has wrong format, use RFC 3339")
		}
		return ts.UTC(), nil
	default:
		return nil, invalid(f.Name, "datetime has wrong format, use RFC 3339")
	}
}

func coerceInteger(f schema.Field, raw any) (any, error) {
	n, ok := toInt64(raw)
	if !ok {
		return nil, invalid(f.Name, "a valid integer is required")
	}
	if f.Min != nil && n < *f.Min {
		return nil, invalid(f.Name, "ensure this value is greater than or equal to %d", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, invalid(f.Name, "ensure this value is less than or equal to %d", *f.Max)
	}
	return n, nil
}

func coerceBool(f schema.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return nil, invalid(f.Name, "must be a valid boolean")
}

func (s *Serializer) coerceRefSet(ctx context.Context, f schema.Field, raw any) (any, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []int64:
		for _, id := range v {
			items = append(items, id)
		}
	default:
		return nil, invalid(f.Name, "expected a list of items but got type %T", raw)
	}

	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		id, ok := toInt64(item)
		if !ok || id <= 0 {
			return nil, invalid(f.Name, "incorrect type, expected pk value")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if err := s.mustExist(ctx, f, id); err != nil {
			return nil, err
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Serializer) mustExist(ctx context.Context, f schema.Field, id int64) error {
	ok, err := s.rel.Exists(ctx, f.Target, id)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", f.Target, id, err)
	}
	if !ok {
		return invalid(f.Name, "invalid pk \"%d\" - object does not exist", id)
	}
	return nil
}

// toInt64 accepts whole JSON numbers and numeric strings.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return toInt64(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
