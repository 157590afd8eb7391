package request

// OwnershipRowRequest is one submitted line of the ownership form.
type OwnershipRowRequest struct {
	OwnerID   string   `json:"ownerId" validate:"required,uuid"`
	Ownership *float64 `json:"ownership" validate:"required,gte=0,lte=1"`
	Mode      *string  `json:"mode" validate:"omitempty,ownership_mode"`
}

// SaveOwnershipRequest is the body of PUT /api/asset/{uuid}/ownership.
// ToggleAll, when present, sets every eligible owner to 100% (true) or 0%
// (false) before Rows are applied. An owner appears at most once.
type SaveOwnershipRequest struct {
	ToggleAll *bool                 `json:"toggleAll"`
	Rows      []OwnershipRowRequest `json:"rows" validate:"unique=OwnerID,dive"`
}
