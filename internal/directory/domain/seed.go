package domain

// DefaultVendors bundled pharmacy records loaded at service start
func DefaultVendors() []Vendor {
	return []Vendor{
		{
			ID:      "v_zen",
			Name:    "ZenCare Pharmacy",
			Phone:   "+234 801 234 5678",
			Address: "Kuje, Abuja",
			Lat:     8.8794,
			Lng:     7.2276,
		},
		{
			ID:      "v_green",
			Name:    "GreenLeaf Pharma",
			Phone:   "+234 902 111 2233",
			Address: "Garki, Abuja",
			Lat:     9.0333,
			Lng:     7.4833,
		},
	}
}
