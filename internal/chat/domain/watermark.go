package domain

import identity "pharmacy_delivery_service/internal/identity/domain"

// Watermark key namespaces, one per viewer role. Kept compatible with the
// legacy client storage keys.
const (
	watermarkNSVendor   = "PD_LAST_MSG_SEEN_PHARM_"
	watermarkNSCustomer = "PD_LAST_MSG_SEEN_CUST_"
)

// WatermarkKey persisted key for the "messages seen up to" timestamp of one
// identity
func WatermarkKey(id identity.Identity) string {
	if id.Role == identity.RoleVendorOperator {
		return watermarkNSVendor + id.ID
	}
	return watermarkNSCustomer + id.ID
}

// CounterpartRole sender role the viewer counts as unread
func CounterpartRole(role identity.Role) SenderRole {
	if role == identity.RoleVendorOperator {
		return SenderCustomer
	}
	return SenderVendor
}

// OwnRole sender role of messages the viewer authored
func OwnRole(role identity.Role) SenderRole {
	if role == identity.RoleVendorOperator {
		return SenderVendor
	}
	return SenderCustomer
}
