package cart

import (
	"encoding/json"
	"os"

	"storefront/models"
)

// Storage is the durable per-user slot the cart is written to on every
// mutation and read from on startup.
type Storage interface {
	Load() ([]models.CartItem, error)
	Save(items []models.CartItem) error
}

// FileStorage keeps the cart as a JSON file.
type FileStorage struct {
	Path string
}

func (f FileStorage) Load() ([]models.CartItem, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f FileStorage) Save(items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0644)
}
