package entity

import (
	"fmt"
	"math"
)

// Key is a handle to an entity: a slot and the generation it was issued for.
type Key struct {
	Slot uint32
	Gen  uint32
}

// Nil is the key that refers to no entity.
var Nil = Key{Slot: math.MaxUint32, Gen: 0}

// IsNil reports whether k is Nil.
func (k Key) IsNil() bool { return k == Nil }

func (k Key) String() string {
	if k.IsNil() {
		return "Key(nil)"
	}
	return fmt.Sprintf("Key(%d:%d)", k.Slot, k.Gen)
}
