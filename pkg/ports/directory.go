package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Directory normalizes the remote directory/registration service into typed
// list, lookup and write operations.
//
// Writes come in two flavors. Tolerant writes (the Submit*, Update* and
// CheckMemberNumber operations) swallow backend failure and surface an
// absent result: the zero EntryID, false, or a nil status. RegisterIdentity
// is non-tolerant: failure propagates as a *directory.Error.
type Directory interface {
	// ListCategories returns entries with no parent category.
	ListCategories(ctx context.Context) ([]domain.DirectoryEntry, error)

	// ListRegions returns region entries, optionally filtered by a
	// free-text title match.
	ListRegions(ctx context.Context, query string) ([]domain.DirectoryEntry, error)

	// ListFacilityTypes returns the known facility types.
	ListFacilityTypes(ctx context.Context) ([]domain.DirectoryEntry, error)

	// ListFacilities returns facilities filtered by region and/or type
	// (either may be empty) and free-text query. Entries sharing a display
	// title have their region name appended to resolve the ambiguity.
	ListFacilities(ctx context.Context, regionID, typeID domain.EntryID, query string) ([]domain.DirectoryEntry, error)

	// ListSubcategories returns entries whose parent equals categoryID.
	ListSubcategories(ctx context.Context, categoryID domain.EntryID) ([]domain.DirectoryEntry, error)

	// HasSubcategories reports whether a category expects a subcategory
	// selection.
	HasSubcategories(ctx context.Context, categoryID domain.EntryID) (bool, error)

	// SubmitUnknownCategory proposes a category missing from the directory.
	// Tolerant: a zero ID with nil error means "accepted but unknown id".
	SubmitUnknownCategory(ctx context.Context, identity, name string) (domain.EntryID, error)

	// SubmitUnknownFacility proposes a facility missing from the directory.
	// Tolerant, same contract as SubmitUnknownCategory.
	SubmitUnknownFacility(ctx context.Context, identity, name string, regionID, typeID domain.EntryID) (domain.EntryID, error)

	// CheckMemberNumber looks up whether a number belongs to the closed
	// user group. Tolerant: nil status with nil error means the lookup was
	// unavailable.
	CheckMemberNumber(ctx context.Context, number string) (*domain.MemberStatus, error)

	// RegisterIdentity enrolls an identity. Non-tolerant.
	RegisterIdentity(ctx context.Context, reg domain.Registration) error

	// UpdateProfileField updates one field of an enrolled identity's
	// record. Tolerant: false with nil error means the write was dropped.
	UpdateProfileField(ctx context.Context, identity, field, value string) (bool, error)
}
