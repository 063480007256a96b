package property

import (
	"fmt"
	"math"
)

// Record is one validated prediction request. It is built by Collect and
// never mutated afterwards.
type Record struct {
	PropertyType    string `json:"property_type"`
	Bedrooms        int    `json:"bedrooms"`
	KitchenEquipped bool   `json:"kitchen_equipped"`
	State           string `json:"state"`
	Facades         int    `json:"facades"`
	SwimmingPool    bool   `json:"swimming_pool"`
	Region          string `json:"region"`
	Municipality    string `json:"municipality"`
	LivingArea      int    `json:"living_area"`
	TerraceArea     int    `json:"terrace_area"`
	GardenArea      int    `json:"garden_area"`
}

// ValidationError names the form field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// Collect validates raw form values against the schema and returns a
// complete Record. The first offending field aborts collection; a partial
// record is never returned.
func Collect(raw map[string]interface{}) (Record, error) {
	var record Record
	for _, field := range Fields() {
		value, present := raw[field.Name]
		if !present || value == nil {
			return Record{}, &ValidationError{Field: field.Name, Reason: "missing required field"}
		}
		switch field.Kind {
		case KindInt:
			n, err := intValue(field, value)
			if err != nil {
				return Record{}, err
			}
			setInt(&record, field.Name, n)
		case KindBool:
			b, ok := value.(bool)
			if !ok {
				return Record{}, &ValidationError{Field: field.Name, Reason: "expected a boolean"}
			}
			setBool(&record, field.Name, b)
		case KindEnum:
			s, ok := value.(string)
			if !ok {
				return Record{}, &ValidationError{Field: field.Name, Reason: "expected a string"}
			}
			if !contains(field.Options, s) {
				return Record{}, &ValidationError{Field: field.Name, Reason: fmt.Sprintf("%q is not an allowed value", s)}
			}
			setString(&record, field.Name, s)
		}
	}
	for name := range raw {
		if _, ok := FieldByName(name); !ok {
			return Record{}, &ValidationError{Field: name, Reason: "unknown field"}
		}
	}
	if region, ok := MunicipalityRegion(record.Municipality); !ok || region != record.Region {
		return Record{}, &ValidationError{
			Field:  "municipality",
			Reason: fmt.Sprintf("%q does not belong to region %q", record.Municipality, record.Region),
		}
	}
	return record, nil
}

// intValue accepts both native ints and the float64 values that JSON
// decoding produces, and range-checks against the field definition.
func intValue(field Field, value interface{}) (int, error) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return 0, &ValidationError{Field: field.Name, Reason: "expected a whole number"}
		}
		n = int(v)
	default:
		return 0, &ValidationError{Field: field.Name, Reason: "expected a number"}
	}
	if n < field.Min || n > field.Max {
		return 0, &ValidationError{
			Field:  field.Name,
			Reason: fmt.Sprintf("%d is outside the range %d..%d", n, field.Min, field.Max),
		}
	}
	return n, nil
}

func setInt(record *Record, name string, value int) {
	switch name {
	case "bedrooms":
		record.Bedrooms = value
	case "facades":
		record.Facades = value
	case "living_area":
		record.LivingArea = value
	case "terrace_area":
		record.TerraceArea = value
	case "garden_area":
		record.GardenArea = value
	}
}

func setBool(record *Record, name string, value bool) {
	switch name {
	case "kitchen_equipped":
		record.KitchenEquipped = value
	case "swimming_pool":
		record.SwimmingPool = value
	}
}

func setString(record *Record, name string, value string) {
	switch name {
	case "property_type":
		record.PropertyType = value
	case "state":
		record.State = value
	case "region":
		record.Region = value
	case "municipality":
		record.Municipality = value
	}
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
