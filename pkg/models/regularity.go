package models

import (
	"database/sql/driver"
	"fmt"
)

// Regularity describes whether a verb follows regular conjugation.
// For non-verb parts of speech the value is RegularityUnknown and is
// stored as NULL.
type Regularity int

const (
	RegularityUnknown Regularity = iota
	RegularityRegular
	RegularityIrregular
)

// String returns a human-readable label
func (r Regularity) String() string {
	switch r {
	case RegularityRegular:
		return "regular"
	case RegularityIrregular:
		return "irregular"
	default:
		return "n/a"
	}
}

// Value implements driver.Valuer so the tri-state maps onto a nullable
// BOOLEAN column (true = regular, false = irregular, NULL = not applicable)
func (r Regularity) Value() (driver.Value, error) {
	switch r {
	case RegularityRegular:
		return true, nil
	case RegularityIrregular:
		return false, nil
	default:
		return nil, nil
	}
}

// Scan implements sql.Scanner
func (r *Regularity) Scan(src interface{}) error {
	if src == nil {
		*r = RegularityUnknown
		return nil
	}
	switch v := src.(type) {
	case bool:
		*r = fromBool(v)
	case int64:
		*r = fromBool(v != 0)
	case []byte:
		*r = fromBool(string(v) == "true" || string(v) == "1")
	case string:
		*r = fromBool(v == "true" || v == "1")
	default:
		return fmt.Errorf("failed to scan regularity from %T", src)
	}
	return nil
}

func fromBool(regular bool) Regularity {
	if regular {
		return RegularityRegular
	}
	return RegularityIrregular
}
