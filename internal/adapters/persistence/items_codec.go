package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/modelfactory/mes/internal/domain/shared"
)

type itemJSON struct {
	ItemType string `json:"itemType"`
	ItemID   int    `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// marshalItems serializes order items to the JSON text column format
func marshalItems(items []shared.ItemQuantity) (string, error) {
	out := make([]itemJSON, 0, len(items))
	for _, iq := range items {
		out = append(out, itemJSON{
			ItemType: string(iq.Item.Type),
			ItemID:   iq.Item.ID,
			Quantity: iq.Quantity,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order items: %w", err)
	}
	return string(data), nil
}

// unmarshalItems deserializes the JSON text column back to order items
func unmarshalItems(data string) ([]shared.ItemQuantity, error) {
	var raw []itemJSON
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	items := make([]shared.ItemQuantity, 0, len(raw))
	for _, r := range raw {
		itemType, err := shared.ParseItemType(r.ItemType)
		if err != nil {
			return nil, err
		}
		items = append(items, shared.ItemQuantity{
			Item:     shared.ItemRef{Type: itemType, ID: r.ItemID},
			Quantity: r.Quantity,
		})
	}
	return items, nil
}
