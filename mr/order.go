package mr

import (
	"fmt"
	"sort"
	"strings"
)

// CmpF is a total order over keys: negative, zero, or positive as a is
// ordered before, equal to, or after b. Comparators must be
// deterministic and side-effect free.
type CmpF func(a, b string) int

// KeyOrder pairs the sort comparator with an optional group
// comparator. The group comparator decides which sorted records are
// folded together and may be coarser than sort equality (e.g. equal
// prefix of the sort key); it must never consider two keys equal that
// the sort order would separate by an unequal key.
type KeyOrder struct {
	sort  CmpF
	group CmpF
}

func NewOrder(sortCmp, groupCmp CmpF) (*KeyOrder, error) {
	if sortCmp == nil {
		return nil, fmt.Errorf("%w: nil sort comparator", ErrConfig)
	}
	return &KeyOrder{sort: sortCmp, group: groupCmp}, nil
}

// StringOrder sorts and groups by the key's natural byte order.
func StringOrder() *KeyOrder {
	return &KeyOrder{sort: strings.Compare}
}

func (o *KeyOrder) Compare(a, b string) int {
	return o.sort(a, b)
}

func (o *KeyOrder) Less(a, b string) bool {
	return o.sort(a, b) < 0
}

func (o *KeyOrder) SameGroup(a, b string) bool {
	if o.group == nil {
		return o.sort(a, b) == 0
	}
	return o.group(a, b) == 0
}

// WithGroup derives an order that keeps the sort comparator and
// replaces the group comparator.
func (o *KeyOrder) WithGroup(groupCmp CmpF) *KeyOrder {
	return &KeyOrder{sort: o.sort, group: groupCmp}
}

// ValidateCoarser checks over a sample of keys that the group
// comparator is coarser than the sort comparator: keys it groups
// together must end up adjacent once sorted. Comparators are opaque,
// so this is necessarily sample-based; the group scanner catches the
// residual violations at run time.
func (o *KeyOrder) ValidateCoarser(sample []string) error {
	keys := append([]string(nil), sample...)
	sort.Slice(keys, func(i, j int) bool { return o.sort(keys[i], keys[j]) < 0 })
	for i := 0; i < len(keys); i++ {
		for j := i + 2; j < len(keys); j++ {
			if o.SameGroup(keys[i], keys[j]) && !o.SameGroup(keys[i], keys[j-1]) {
				return fmt.Errorf("%w: %q and %q grouped but sorted apart", ErrGrouping, keys[i], keys[j])
			}
		}
	}
	return nil
}
