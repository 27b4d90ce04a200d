package models

// Asset is a tracked device. It always belongs to exactly one Office and
// one AssetType and may carry any number of SoftwareLicenses.
type Asset struct {
	Versioned
	ID               int64             `json:"id"`
	SerialNumber     string            `json:"serial_number"`
	AcquisitionDate  *Date             `json:"acquisition_date,omitempty"`
	Office           Office            `json:"office"`
	AssetType        AssetType         `json:"asset_type"`
	SoftwareLicenses []SoftwareLicense `json:"software_licenses"`
}

func (a *Asset) GetID() int64 { return a.ID }

func (a *Asset) HasLicense(licenseID int64) bool {
	for _, l := range a.SoftwareLicenses {
		if l.ID == licenseID {
			return true
		}
	}
	return false
}

// AddLicense appends l unless a license with the same id is already attached.
// It returns false when nothing changed.
func (a *Asset) AddLicense(l SoftwareLicense) bool {
	if a.HasLicense(l.ID) {
		return false
	}
	a.SoftwareLicenses = append(a.SoftwareLicenses, l)
	return true
}

// RemoveLicense detaches the license with the given id. It returns false
// when the license was not attached.
func (a *Asset) RemoveLicense(licenseID int64) bool {
	for i, l := range a.SoftwareLicenses {
		if l.ID == licenseID {
			a.SoftwareLicenses = append(a.SoftwareLicenses[:i:i], a.SoftwareLicenses[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Asset) LicenseIDs() []int64 {
	ids := make([]int64, 0, len(a.SoftwareLicenses))
	for _, l := range a.SoftwareLicenses {
		ids = append(ids, l.ID)
	}
	return ids
}
