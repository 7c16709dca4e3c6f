package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
)

// snapshot is the persisted record. Items are stored as a list so that
// insertion order survives a restart.
type snapshot struct {
	Items []domain.CartLineItem `json:"items"`
}

func encodeSnapshot(items []domain.CartLineItem) ([]byte, error) {
	data, err := json.Marshal(snapshot{Items: items})
	if err != nil {
		return nil, fmt.Errorf("marshal cart snapshot failed: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) ([]domain.CartLineItem, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot failed: %w", err)
	}
	for _, item := range snap.Items {
		if item.ProductID == "" {
			return nil, errors.New("cart snapshot item without product id")
		}
	}
	return snap.Items, nil
}
