package models

import "sort"

// Fixed code tables used for purchase request code formatting. Keys are the
// human-readable names accepted by the API; values are the 3-letter codes
// embedded in generated PR codes.
var locationCodes = map[string]string{
	"Raqqa":      "RAQ",
	"Hassaka":    "HSK",
	"Deir Ezole": "DRZ",
}

var departmentCodes = map[string]string{
	"Health":    "HEA",
	"Education": "EDU",
	"WASH":      "WSH",
}

// LocationCode resolves a location name to its 3-letter code.
func LocationCode(location string) (string, bool) {
	code, ok := locationCodes[location]
	return code, ok
}

// DepartmentCode resolves a department name to its 3-letter code.
func DepartmentCode(department string) (string, bool) {
	code, ok := departmentCodes[department]
	return code, ok
}

// ValidLocations returns the accepted location names in sorted order.
func ValidLocations() []string {
	names := make([]string, 0, len(locationCodes))
	for name := range locationCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidDepartments returns the accepted department names in sorted order.
func ValidDepartments() []string {
	names := make([]string, 0, len(departmentCodes))
	for name := range departmentCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
