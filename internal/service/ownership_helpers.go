package service

import (
	"fmt"
	"math"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// ownershipEpsilon is the tolerance used when checking that shares add up to 1.
const ownershipEpsilon = 1e-4

// mergeOwnershipRows builds the ownership form rows of an asset.
//
// Current owners come first, in their stored order. Related entities that do
// not own a share yet follow, in the order given, with a fraction of 0 and no
// mode. An entity present in both lists appears once, as an owner.
func mergeOwnershipRows(owners []model.AssetOwner, related []model.RelatedEntity) []model.OwnershipRow {
	rows := make([]model.OwnershipRow, 0, len(owners)+len(related))
	seen := make(map[string]bool, len(owners)+len(related))

	for _, o := range owners {
		if seen[o.EntityID] {
			continue
		}
		seen[o.EntityID] = true
		rows = append(rows, model.OwnershipRow{
			OwnerID:   o.EntityID,
			OwnerName: o.EntityName,
			Ownership: o.Ownership,
			Mode:      o.Mode,
		})
	}

	for _, e := range related {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		rows = append(rows, model.OwnershipRow{
			OwnerID:   e.ID,
			OwnerName: e.Name,
		})
	}

	return rows
}

// OwnershipForm is the editable ownership split of one asset.
// It only checks individual fractions; whether the shares add up is decided
// at save time.
type OwnershipForm struct {
	rows  []model.OwnershipRow
	index map[string]int
}

// NewOwnershipForm creates a form over a copy of rows.
func NewOwnershipForm(rows []model.OwnershipRow) *OwnershipForm {
	f := &OwnershipForm{
		rows:  make([]model.OwnershipRow, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	copy(f.rows, rows)
	for i, r := range f.rows {
		f.index[r.OwnerID] = i
	}
	return f
}

// Rows returns a copy of the current rows in form order.
func (f *OwnershipForm) Rows() []model.OwnershipRow {
	out := make([]model.OwnershipRow, len(f.rows))
	copy(out, f.rows)
	return out
}

// SetFraction sets the share of one owner. The fraction must be in [0,1]
// and the owner must be part of the form.
func (f *OwnershipForm) SetFraction(ownerID string, fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidFraction, fraction)
	}
	i, ok := f.index[ownerID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrOwnerNotFound, ownerID)
	}
	f.rows[i].Ownership = fraction
	return nil
}

// SetMode sets the legal qualifier of one owner's share. A nil mode clears it.
func (f *OwnershipForm) SetMode(ownerID string, mode *model.OwnershipMode) error {
	i, ok := f.index[ownerID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrOwnerNotFound, ownerID)
	}
	if mode != nil && !mode.Valid() {
		return fmt.Errorf("invalid ownership mode %q", *mode)
	}
	f.rows[i].Mode = mode
	return nil
}

// ToggleAll sets every fraction to 1 when checked and to 0 otherwise.
//
// Shares are not renormalised: checking gives every owner 100%, which only
// makes sense with a single owner or when modes split usufruct from bare
// ownership. Unchecking does not restore the previous fractions.
func (f *OwnershipForm) ToggleAll(checked bool) {
	v := 0.0
	if checked {
		v = 1
	}
	for i := range f.rows {
		f.rows[i].Ownership = v
	}
}

// ownershipRights sums the bare ownership and usufruct held across rows.
// Full property and an unqualified share carry both rights.
func ownershipRights(rows []model.OwnershipRow) (bare, usufruct float64) {
	for _, r := range rows {
		switch {
		case r.Mode == nil || *r.Mode == model.ModeFullProperty:
			bare += r.Ownership
			usufruct += r.Ownership
		case *r.Mode == model.ModeProperty:
			bare += r.Ownership
		case *r.Mode == model.ModeUsufruct:
			usufruct += r.Ownership
		}
	}
	return bare, usufruct
}

// ownershipProblems lists why the shares of rows are inconsistent. An empty
// result means both bare ownership and usufruct are allocated at 100%.
func ownershipProblems(rows []model.OwnershipRow) []string {
	bare, usufruct := ownershipRights(rows)

	var problems []string
	if math.Abs(bare-1) > ownershipEpsilon {
		problems = append(problems, fmt.Sprintf("bare ownership totals %.2f%%, expected 100%%", bare*100))
	}
	if math.Abs(usufruct-1) > ownershipEpsilon {
		problems = append(problems, fmt.Sprintf("usufruct totals %.2f%%, expected 100%%", usufruct*100))
	}
	return problems
}

// ownersFromRows converts form rows into the owner list sent to the backend.
// Rows with a zero fraction mean "not an owner" and are dropped.
func ownersFromRows(rows []model.OwnershipRow) []model.AssetOwner {
	owners := make([]model.AssetOwner, 0, len(rows))
	for _, r := range rows {
		if r.Ownership == 0 {
			continue
		}
		owners = append(owners, model.AssetOwner{
			EntityID:   r.OwnerID,
			EntityName: r.OwnerName,
			Ownership:  r.Ownership,
			Mode:       r.Mode,
		})
	}
	return owners
}
