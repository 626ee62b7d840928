package domain

import "github.com/bwmarrin/snowflake"

// ResourceKind is the user-facing label of a tenant-scoped resource.
type ResourceKind string

const (
	ResourceInvoice  ResourceKind = "facture"
	ResourceContract ResourceKind = "contrat"
	ResourceExpense  ResourceKind = "dépense"
)

// CanAccessResource decides tenant access. Admins see everything, clients see
// rows carrying their own client id, everyone else sees nothing. Rows without
// an owner are admin-only.
func CanAccessResource(session Session, resourceClientID *snowflake.ID) bool {
	switch session.RoleID {
	case RoleAdmin:
		return true
	case RoleClient:
		if resourceClientID == nil || session.ClientID == nil {
			return false
		}
		return *session.ClientID == *resourceClientID
	default:
		return false
	}
}

// AssertOwnership returns a 403 failure naming kind when access is denied.
func AssertOwnership(session Session, resourceClientID *snowflake.ID, kind ResourceKind) error {
	if CanAccessResource(session, resourceClientID) {
		return nil
	}
	return ForbiddenResource(kind)
}
