package model

// OwnershipRow is one line of the ownership editing form.
type OwnershipRow struct {
	OwnerID   string         `json:"ownerId"`
	OwnerName string         `json:"ownerName"`
	Ownership float64        `json:"ownership"`
	Mode      *OwnershipMode `json:"mode"`
}

// OwnershipResult is returned after a save. Warnings are only filled when
// share consistency is not enforced.
type OwnershipResult struct {
	AssetID  string         `json:"assetId"`
	Rows     []OwnershipRow `json:"rows"`
	Warnings []string       `json:"warnings,omitempty"`
}
