package models

// AssetType classifies assets, e.g. "Laptop" or "Monitor".
type AssetType struct {
	Versioned
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (t *AssetType) GetID() int64 { return t.ID }
