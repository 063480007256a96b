package ml

import (
	"fmt"
	"math"

	"homeval/property"
)

// EncodingError reports a record value the encoder cannot represent for
// the model. Unknown categorical values are rejected outright; there is
// no fallback "unknown" bucket.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s: %q is not in the encoder vocabulary", e.Field, e.Value)
}

// Encoder turns a validated property record into the numeric vector the
// price model was trained on. Encoding is deterministic: the same record
// always yields the same vector.
type Encoder struct {
	typeCodes         map[string]float64
	stateCodes        map[string]float64
	regionCodes       map[string]float64
	municipalityCodes map[string]float64
	averageIncome     map[string]float64
}

func NewEncoder() *Encoder {
	return &Encoder{
		typeCodes: map[string]float64{"Apartment": 0, "House": 1},
		stateCodes: map[string]float64{
			"Good":           1,
			"Unknown":        2,
			"As new":         3,
			"To renovate":    4,
			"To be done up":  5,
			"Just renovated": 6,
			"To restore":     7,
		},
		regionCodes: map[string]float64{"Brussel": 0, "Flanders": 1, "Wallonia": 2},
		municipalityCodes: map[string]float64{
			"Antwerpen":       0,
			"Brussel":         1,
			"Henegouwen":      2,
			"Limburg":         3,
			"Luik":            4,
			"Luxemburg":       5,
			"Namen":           6,
			"Oost-Vlaanderen": 7,
			"Vlaams-Brabant":  8,
			"Waals-Brabant":   9,
			"West-Vlaanderen": 10,
		},
		averageIncome: map[string]float64{
			"Antwerpen":       31370.66,
			"Brussel":         29213.63,
			"Henegouwen":      25779.83,
			"Limburg":         31620.44,
			"Luik":            29132.64,
			"Luxemburg":       32628.53,
			"Namen":           27685.44,
			"Oost-Vlaanderen": 30710.00,
			"Vlaams-Brabant":  36105.99,
			"Waals-Brabant":   39882.77,
			"West-Vlaanderen": 30269.35,
		},
	}
}

// FeatureNames returns the model's training-time column layout, in order.
func FeatureNames() []string {
	return []string{
		"Type",
		"Bedrooms",
		"Is_Equiped_Kitchen",
		"State",
		"Facades",
		"Swim_pool",
		"Municipality",
		"Region",
		"Average_Income",
		"Bedroom_Bin_Code",
		"Log_Living_Area",
		"Sqrt_Total_Outdoor_Area",
	}
}

// Encode derives the feature vector for one record. The output matches
// FeatureNames in length and order.
func (e *Encoder) Encode(record property.Record) ([]float64, error) {
	typeCode, ok := e.typeCodes[record.PropertyType]
	if !ok {
		return nil, &EncodingError{Field: "property_type", Value: record.PropertyType}
	}
	stateCode, ok := e.stateCodes[record.State]
	if !ok {
		return nil, &EncodingError{Field: "state", Value: record.State}
	}
	regionCode, ok := e.regionCodes[record.Region]
	if !ok {
		return nil, &EncodingError{Field: "region", Value: record.Region}
	}
	municipalityCode, ok := e.municipalityCodes[record.Municipality]
	if !ok {
		return nil, &EncodingError{Field: "municipality", Value: record.Municipality}
	}
	income, ok := e.averageIncome[record.Municipality]
	if !ok {
		return nil, &EncodingError{Field: "municipality", Value: record.Municipality}
	}
	if record.LivingArea <= 0 {
		return nil, &EncodingError{Field: "living_area", Value: fmt.Sprintf("%d", record.LivingArea)}
	}

	outdoorArea := float64(record.TerraceArea + record.GardenArea)

	return []float64{
		typeCode,
		float64(record.Bedrooms),
		boolCode(record.KitchenEquipped),
		stateCode,
		float64(record.Facades),
		boolCode(record.SwimmingPool),
		municipalityCode,
		regionCode,
		income,
		bedroomBinCode(record.Bedrooms),
		math.Log(float64(record.LivingArea)),
		math.Sqrt(outdoorArea),
	}, nil
}

func bedroomBinCode(bedrooms int) float64 {
	switch {
	case bedrooms <= 2:
		return 1
	case bedrooms <= 4:
		return 2
	default:
		return 3
	}
}

func boolCode(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
