package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Number converts an upstream numeric value (JSON number or numeric string)
// into a canonical json.Number. Absent, empty or unparseable values yield nil.
func Number(v any) any {
	var (
		d   decimal.Decimal
		err error
	)

	switch n := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		d, err = decimal.NewFromString(s)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		d = decimal.NewFromFloat(n)
	case int64:
		d = decimal.NewFromInt(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	default:
		return nil
	}
	if err != nil {
		return nil
	}

	return json.Number(d.String())
}

// toInt64 reads an integral upstream value such as an epoch timestamp or a trade count.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return parseInt(n.String())
	case string:
		return parseInt(strings.TrimSpace(n))
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errors.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, errors.Errorf("unexpected type %T", v)
	}
}

func parseInt(s string) (int64, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	if !d.IsInteger() {
		return 0, errors.Errorf("%s is not an integer", s)
	}
	return d.IntPart(), nil
}

// toString reads a value the upstream sends as a quoted decimal.
func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case nil:
		return "", errors.New("missing value")
	default:
		return "", errors.Errorf("unexpected type %T", v)
	}
}
