package shared

import "fmt"

// ItemType identifies which of the three disjoint item categories an id
// belongs to. Ids are unique within their type, not across types.
type ItemType string

const (
	ItemTypeProduct ItemType = "PRODUCT"
	ItemTypeModule  ItemType = "MODULE"
	ItemTypePart    ItemType = "PART"
)

// IsValid reports whether the item type is one of the known categories
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeModule, ItemTypePart:
		return true
	}
	return false
}

func (t ItemType) String() string {
	return string(t)
}

// ParseItemType parses a string into an ItemType
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown item type: %q", s)
	}
	return t, nil
}

// ItemRef identifies a single item: the (itemType, itemId) pair carried by
// every stock entry and order item.
type ItemRef struct {
	Type ItemType
	ID   int
}

// NewItemRef creates a validated item reference
func NewItemRef(itemType ItemType, id int) (ItemRef, error) {
	if !itemType.IsValid() {
		return ItemRef{}, fmt.Errorf("unknown item type: %q", itemType)
	}
	if id <= 0 {
		return ItemRef{}, fmt.Errorf("item id must be positive, got %d", id)
	}
	return ItemRef{Type: itemType, ID: id}, nil
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s-%d", r.Type, r.ID)
}

// ItemQuantity pairs an item reference with a quantity
type ItemQuantity struct {
	Item     ItemRef
	Quantity int
}

// SumQuantities returns the total quantity across all entries
func SumQuantities(items []ItemQuantity) int {
	total := 0
	for _, iq := range items {
		total += iq.Quantity
	}
	return total
}

// MergeQuantities groups entries by item reference and sums their quantities.
// Order of the result follows first appearance of each item.
func MergeQuantities(items []ItemQuantity) []ItemQuantity {
	index := make(map[ItemRef]int, len(items))
	merged := make([]ItemQuantity, 0, len(items))
	for _, iq := range items {
		if pos, ok := index[iq.Item]; ok {
			merged[pos].Quantity += iq.Quantity
			continue
		}
		index[iq.Item] = len(merged)
		merged = append(merged, iq)
	}
	return merged
}
