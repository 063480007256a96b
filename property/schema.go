package property

import "sort"

// FieldKind describes how a form field is entered and validated.
type FieldKind string

const (
	KindInt  FieldKind = "int"
	KindBool FieldKind = "bool"
	KindEnum FieldKind = "enum"
)

// Field is one entry of the feature schema. The UI builds its form from
// these definitions, and the collector validates raw input against them.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Min      int       `json:"min,omitempty"`
	Max      int       `json:"max,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

func Fields() []Field {
	return []Field{
		{Name: "property_type", Label: "House or Apartment?", Kind: KindEnum, Required: true, Options: PropertyTypes()},
		{Name: "bedrooms", Label: "Number of Bedrooms", Kind: KindInt, Required: true, Min: 0, Max: 50},
		{Name: "kitchen_equipped", Label: "Is the kitchen equipped?", Kind: KindBool, Required: true},
		{Name: "state", Label: "Condition of the building", Kind: KindEnum, Required: true, Options: States()},
		{Name: "facades", Label: "Number of Facades", Kind: KindInt, Required: true, Min: 1, Max: 10},
		{Name: "swimming_pool", Label: "Is there a swimming pool?", Kind: KindBool, Required: true},
		{Name: "region", Label: "Region", Kind: KindEnum, Required: true, Options: Regions()},
		{Name: "municipality", Label: "Municipality", Kind: KindEnum, Required: true, Options: AllMunicipalities()},
		{Name: "living_area", Label: "Living Area (sq. meters)", Kind: KindInt, Required: true, Min: 10, Max: 2000},
		{Name: "terrace_area", Label: "Terrace Area (sq. meters)", Kind: KindInt, Required: true, Min: 0, Max: 2000},
		{Name: "garden_area", Label: "Garden Area (sq. meters)", Kind: KindInt, Required: true, Min: 0, Max: 1000},
	}
}

func FieldByName(name string) (Field, bool) {
	for _, field := range Fields() {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func PropertyTypes() []string {
	return []string{"Apartment", "House"}
}

func States() []string {
	return []string{
		"Good",
		"Unknown",
		"As new",
		"To renovate",
		"To be done up",
		"Just renovated",
		"To restore",
	}
}

func Regions() []string {
	return []string{"Brussel", "Flanders", "Wallonia"}
}

// municipalityRegions binds each municipality to the region it belongs to.
// The form only offers municipalities of the selected region, and the
// collector rejects pairs that disagree.
var municipalityRegions = map[string]string{
	"Antwerpen":       "Flanders",
	"Brussel":         "Brussel",
	"Henegouwen":      "Wallonia",
	"Limburg":         "Flanders",
	"Luik":            "Wallonia",
	"Luxemburg":       "Wallonia",
	"Namen":           "Wallonia",
	"Oost-Vlaanderen": "Flanders",
	"Vlaams-Brabant":  "Flanders",
	"Waals-Brabant":   "Wallonia",
	"West-Vlaanderen": "Flanders",
}

func AllMunicipalities() []string {
	names := make([]string, 0, len(municipalityRegions))
	for name := range municipalityRegions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Municipalities returns the municipalities of one region, sorted.
func Municipalities(region string) []string {
	names := make([]string, 0)
	for name, r := range municipalityRegions {
		if r == region {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MunicipalityRegion reports the region a municipality belongs to.
func MunicipalityRegion(municipality string) (string, bool) {
	region, ok := municipalityRegions[municipality]
	return region, ok
}

// SizeCategory buckets a living area into the label shown next to the
// area input.
func SizeCategory(livingArea int) string {
	switch {
	case livingArea <= 20:
		return "Tiny Apartment"
	case livingArea <= 50:
		return "Small Apartment"
	case livingArea <= 100:
		return "Medium Apartment"
	case livingArea <= 300:
		return "Regular House"
	case livingArea <= 500:
		return "Large House"
	case livingArea <= 1000:
		return "Villa"
	default:
		return "Mansion"
	}
}
