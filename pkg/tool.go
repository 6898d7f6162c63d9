package pkg

import "strings"

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// ShortID first 4 chars of an id, uppercased, for synthesized labels
func ShortID(id string) string {
	if len(id) > 4 {
		id = id[:4]
	}
	return strings.ToUpper(id)
}
