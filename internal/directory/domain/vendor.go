package domain

// Vendor registered pharmacy in the storefront directory
type Vendor struct {
	ID          string
	Name        string
	Phone       string
	Address     string
	Lat         float64
	Lng         float64
	OperatorUID string
}

// VendorQuery join conditions are used to query vendors
type VendorQuery struct {
	ID          *string `db:"id"`
	Name        *string `db:"name"`
	OperatorUID *string `db:"operator_uid"`
}
