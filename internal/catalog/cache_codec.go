package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"catalog-assistant/internal/models"
)

// Value kinds stored in the table cache. Plain JSON would turn int64 into
// float64 and time.Time into a string, so each column keeps its kind.
const (
	kindNull    = "null"
	kindString  = "string"
	kindBool    = "bool"
	kindInt     = "int64"
	kindFloat   = "float64"
	kindTime    = "time"
	kindBytes   = "bytes"
	kindUntyped = "json"
)

type cachedValue struct {
	Kind  string          `json:"k"`
	Value json.RawMessage `json:"v,omitempty"`
}

type cachedRecord map[string]cachedValue

func encodeRecords(records []models.GenericRecord) ([]cachedRecord, error) {
	out := make([]cachedRecord, len(records))
	for i, record := range records {
		row := make(cachedRecord, len(record))
		for column, v := range record {
			cv, err := encodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", column, err)
			}
			row[column] = cv
		}
		out[i] = row
	}
	return out, nil
}

func decodeRecords(rows []cachedRecord) ([]models.GenericRecord, error) {
	out := make([]models.GenericRecord, len(rows))
	for i, row := range rows {
		record := make(models.GenericRecord, len(row))
		for column, cv := range row {
			v, err := decodeValue(cv)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", column, err)
			}
			record[column] = v
		}
		out[i] = record
	}
	return out, nil
}

func encodeValue(v interface{}) (cachedValue, error) {
	var (
		kind string
		raw  interface{}
	)
	switch val := v.(type) {
	case nil:
		return cachedValue{Kind: kindNull}, nil
	case string:
		kind, raw = kindString, val
	case bool:
		kind, raw = kindBool, val
	case int64:
		kind, raw = kindInt, strconv.FormatInt(val, 10)
	case int:
		kind, raw = kindInt, strconv.FormatInt(int64(val), 10)
	case int32:
		kind, raw = kindInt, strconv.FormatInt(int64(val), 10)
	case float64:
		kind, raw = kindFloat, val
	case float32:
		kind, raw = kindFloat, float64(val)
	case time.Time:
		kind, raw = kindTime, val.Format(time.RFC3339Nano)
	case []byte:
		kind, raw = kindBytes, val
	default:
		kind, raw = kindUntyped, val
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return cachedValue{}, err
	}
	return cachedValue{Kind: kind, Value: data}, nil
}

func decodeValue(cv cachedValue) (interface{}, error) {
	switch cv.Kind {
	case kindNull:
		return nil, nil
	case kindString:
		var s string
		err := json.Unmarshal(cv.Value, &s)
		return s, err
	case kindBool:
		var b bool
		err := json.Unmarshal(cv.Value, &b)
		return b, err
	case kindInt:
		var s string
		if err := json.Unmarshal(cv.Value, &s); err != nil {
			return nil, err
		}
		return strconv.ParseInt(s, 10, 64)
	case kindFloat:
		var f float64
		err := json.Unmarshal(cv.Value, &f)
		return f, err
	case kindTime:
		var s string
		if err := json.Unmarshal(cv.Value, &s); err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	case kindBytes:
		var b []byte
		err := json.Unmarshal(cv.Value, &b)
		return b, err
	case kindUntyped:
		var v interface{}
		err := json.Unmarshal(cv.Value, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown cached value kind %q", cv.Kind)
	}
}
