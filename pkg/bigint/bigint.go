package bigint

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Int is a non-negative arbitrary-precision integer column. On-chain uint256
// amounts need up to 78 decimal digits, so the value is persisted as a
// decimal string rather than any native SQL integer type.
type Int struct {
	v big.Int
}

func New(x int64) Int {
	var n Int
	n.v.SetInt64(x)
	return n
}

// FromBig copies x; nil is treated as zero.
func FromBig(x *big.Int) Int {
	var n Int
	if x != nil {
		n.v.Set(x)
	}
	return n
}

// Big returns a copy, so callers can't mutate the stored value.
func (n Int) Big() *big.Int { return new(big.Int).Set(&n.v) }

func (n Int) String() string { return n.v.String() }

func (n Int) Sign() int { return n.v.Sign() }

func (n Int) Cmp(x Int) int { return n.v.Cmp(&x.v) }

// Plus returns n + x. A nil x is treated as zero.
func (n Int) Plus(x *big.Int) Int {
	out := FromBig(&n.v)
	if x != nil {
		out.v.Add(&out.v, x)
	}
	return out
}

// MinusFloor returns n - x saturated at zero. Stale cached totals or
// replayed deliveries may carry amounts larger than the current value; the
// result must never go negative.
func (n Int) MinusFloor(x *big.Int) Int {
	if x == nil {
		return FromBig(&n.v)
	}
	if n.v.Cmp(x) <= 0 {
		return Int{}
	}
	out := FromBig(&n.v)
	out.v.Sub(&out.v, x)
	return out
}

func (n Int) Value() (driver.Value, error) { return n.v.String(), nil }

func (n *Int) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		n.v.SetInt64(0)
		return nil
	case int64:
		n.v.SetInt64(s)
		return nil
	case []byte:
		return n.setString(string(s))
	case string:
		return n.setString(s)
	default:
		return fmt.Errorf("bigint: cannot scan %T", src)
	}
}

func (n *Int) setString(s string) error {
	if s == "" {
		n.v.SetInt64(0)
		return nil
	}
	if _, ok := n.v.SetString(s, 10); !ok {
		return fmt.Errorf("bigint: invalid decimal %q", s)
	}
	return nil
}

func (n Int) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.v.String() + `"`), nil
}

func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		n.v.SetInt64(0)
		return nil
	}
	return n.setString(string(b))
}

func (Int) GormDataType() string { return "varchar(78)" }
