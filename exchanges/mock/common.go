package mock

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// DefaultDirectory defines the main mock directory
const DefaultDirectory = "../../testdata/http_mock"

var errUnhandledValueType = errors.New("unhandled conversion type, please add as needed")

// deltaKeys are values that change on every request and only need to be
// present to match
var deltaKeys = map[string]struct{}{
	"nonce":     {},
	"signature": {},
	"timestamp": {},
}

// MatchURLVals matches url.Value query strings
func MatchURLVals(v1, v2 url.Values) bool {
	if len(v1) != len(v2) {
		return false
	}

	for key, val := range v1 {
		if _, ok := deltaKeys[key]; ok {
			if _, ok := v2[key]; !ok {
				return false
			}
			continue
		}

		if val2, ok := v2[key]; ok {
			if strings.Join(val2, "") == strings.Join(val, "") {
				continue
			}
		}
		return false
	}
	return true
}

// DeriveURLValsFromJSON flattens a JSON object or array of objects into url
// values. Array elements are keyed by their index, e.g. `0.amount`.
func DeriveURLValsFromJSON(payload []byte) (url.Values, error) {
	vals := url.Values{}
	if len(payload) == 0 {
		return vals, nil
	}

	_, dataType, _, err := jsonparser.Get(payload)
	if err != nil {
		return nil, err
	}

	switch dataType {
	case jsonparser.Object:
		return vals, addObject(vals, "", payload)
	case jsonparser.Array:
		var idx int
		var innerErr error
		_, err = jsonparser.ArrayEach(payload, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
			if innerErr != nil {
				return
			}
			key := strconv.Itoa(idx)
			idx++
			if vt != jsonparser.Object {
				innerErr = addValue(vals, key, value, vt)
				return
			}
			innerErr = addObject(vals, key+".", value)
		})
		if err != nil {
			return nil, err
		}
		return vals, innerErr
	default:
		return nil, fmt.Errorf("%w: top level %s", errUnhandledValueType, dataType)
	}
}

func addObject(vals url.Values, prefix string, payload []byte) error {
	return jsonparser.ObjectEach(payload, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		return addValue(vals, prefix+string(key), value, vt)
	})
}

func addValue(vals url.Values, key string, value []byte, vt jsonparser.ValueType) error {
	switch vt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return err
		}
		vals.Add(key, s)
	case jsonparser.Number, jsonparser.Boolean, jsonparser.Object, jsonparser.Array:
		vals.Add(key, string(value))
	case jsonparser.Null:
		vals.Add(key, "")
	default:
		return fmt.Errorf("%w: %s", errUnhandledValueType, vt)
	}
	return nil
}
