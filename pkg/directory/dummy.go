package directory

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Dummy is the in-memory stand-in used when no directory service is
// configured. It serves a small fixed data set and accepts every write.
type Dummy struct{}

var _ ports.Directory = (*Dummy)(nil)

// NewDummy creates the stub directory.
func NewDummy() *Dummy {
	return &Dummy{}
}

// categoriesWithSubs lists the category IDs that carry subcategories,
// matching the default IDs of the real service.
var categoriesWithSubs = map[domain.EntryID]bool{
	"1":  true, // Medical Specialist
	"60": true, // Assistant Medical Officer
	"67": true, // Dental Specialist
}

func (d *Dummy) ListCategories(ctx context.Context) ([]domain.DirectoryEntry, error) {
	return []domain.DirectoryEntry{
		{ID: "1", Title: "Medical Specialist"},
		{ID: "mo", Title: "MO"},
		{ID: "60", Title: "AMO"},
		{ID: "co", Title: "CO"},
		{ID: "aco", Title: "ACO"},
		{ID: "67", Title: "Dental Specialist"},
		{ID: "do", Title: "Dental Officer"},
		{ID: "ado", Title: "ADO"},
		{ID: "dt", Title: "Dental Therapist"},
	}, nil
}

func (d *Dummy) ListSubcategories(ctx context.Context, categoryID domain.EntryID) ([]domain.DirectoryEntry, error) {
	switch categoryID {
	case "67":
		return []domain.DirectoryEntry{
			{ID: "cd", Title: "Community Dentistry"},
			{ID: "ms", Title: "Maxilofacial Surgery"},
		}, nil
	case "1":
		return []domain.DirectoryEntry{
			{ID: "anaesthesia", Title: "Anaesthesia"},
			{ID: "anatomy", Title: "Anatomy"},
		}, nil
	case "60":
		return []domain.DirectoryEntry{
			{ID: "anaesthesiology", Title: "Anaesthesiology"},
			{ID: "em", Title: "Emergency Medicine"},
		}, nil
	}
	return nil, nil
}

func (d *Dummy) HasSubcategories(ctx context.Context, categoryID domain.EntryID) (bool, error) {
	return categoriesWithSubs[categoryID], nil
}

func (d *Dummy) ListRegions(ctx context.Context, query string) ([]domain.DirectoryEntry, error) {
	return []domain.DirectoryEntry{
		{ID: "kigoma-mc", Title: "Kigoma MC"},
		{ID: "kigoma-dc", Title: "Kigoma DC"},
		{ID: "kasulu-dc", Title: "Kasulu DC"},
	}, nil
}

func (d *Dummy) ListFacilityTypes(ctx context.Context) ([]domain.DirectoryEntry, error) {
	return []domain.DirectoryEntry{
		{ID: "hospital", Title: "Hospital"},
		{ID: "health-centre", Title: "Health Centre"},
		{ID: "dispensary", Title: "Dispensary"},
		{ID: "clinic", Title: "Clinic"},
		{ID: "mhsw", Title: "Ministry of Health and Social Welfare"},
		{ID: "council", Title: "Council"},
		{ID: "training", Title: "Training Institution"},
		{ID: "zonal-training", Title: "Zonal Training Centre"},
		{ID: "ngo", Title: "NGO"},
	}, nil
}

func (d *Dummy) ListFacilities(ctx context.Context, regionID, typeID domain.EntryID, query string) ([]domain.DirectoryEntry, error) {
	return []domain.DirectoryEntry{
		{ID: "wazazi-galapo", Title: "Wazazi Galapo"},
		{ID: "wazazi-magugu", Title: "Wazazi Magugu"},
		{ID: "wazazu-mchuo", Title: "Wazazu Mchuo"},
	}, nil
}

func (d *Dummy) SubmitUnknownCategory(ctx context.Context, identity, name string) (domain.EntryID, error) {
	return "", nil
}

func (d *Dummy) SubmitUnknownFacility(ctx context.Context, identity, name string, regionID, typeID domain.EntryID) (domain.EntryID, error) {
	return "", nil
}

func (d *Dummy) CheckMemberNumber(ctx context.Context, number string) (*domain.MemberStatus, error) {
	return &domain.MemberStatus{InGroup: false}, nil
}

func (d *Dummy) RegisterIdentity(ctx context.Context, reg domain.Registration) error {
	return nil
}

func (d *Dummy) UpdateProfileField(ctx context.Context, identity, field, value string) (bool, error) {
	return true, nil
}
