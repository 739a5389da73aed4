package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Amount is an optional money value. Catalog price fields are tri-state:
// absent, zero/negative ("not set") or positive.
type Amount struct {
	value float64
	set   bool
}

// SomeAmount returns a present amount.
func SomeAmount(v float64) Amount {
	return Amount{value: v, set: true}
}

// NoAmount returns an absent amount.
func NoAmount() Amount {
	return Amount{}
}

// AmountFromPtr converts a nullable column value.
func AmountFromPtr(v *float64) Amount {
	if v == nil {
		return NoAmount()
	}
	return SomeAmount(*v)
}

// Get returns the raw value and whether it is present.
func (a Amount) Get() (float64, bool) {
	return a.value, a.set
}

// IsSet reports whether the amount is present, regardless of its sign.
func (a Amount) IsSet() bool {
	return a.set
}

// Usable reports whether the amount is present, finite and strictly positive.
func (a Amount) Usable() bool {
	return a.set && a.value > 0 && !math.IsInf(a.value, 1)
}

// Ptr returns the amount as a nullable value.
func (a Amount) Ptr() *float64 {
	if !a.set {
		return nil
	}
	v := a.value
	return &v
}

// MarshalJSON encodes an absent amount as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(a.value, 'f', -1, 64)), nil
}

// UnmarshalJSON decodes null as an absent amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = NoAmount()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = SomeAmount(v)
	return nil
}
