package models

import "time"

type SoftwareLicense struct {
	Versioned
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ExpireDate time.Time `json:"expire_date"`
}

func (l *SoftwareLicense) GetID() int64 { return l.ID }

// ExpiresWithin reports whether the license expires in [from, from+window].
func (l *SoftwareLicense) ExpiresWithin(from time.Time, window time.Duration) bool {
	return !l.ExpireDate.Before(from) && !l.ExpireDate.After(from.Add(window))
}
