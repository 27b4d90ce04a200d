package models

// Office is a physical location that assets are assigned to.
type Office struct {
	Versioned
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (o *Office) GetID() int64 { return o.ID }
