package parser

import (
	"errors"
	"testing"

	"github.com/azertyfreak/makelaar-contract-generator/catalog"
	"github.com/azertyfreak/makelaar-contract-generator/model"
)

func TestRegistryUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, _, err := registry.Parse("hypotheek", "some text")
	if !errors.Is(err, model.ErrUnknownDocumentType) {
		t.Fatalf("Expected ErrUnknownDocumentType, got %v", err)
	}
}

func TestRegistryCoversClosedSet(t *testing.T) {
	registry := NewRegistry()

	for _, dt := range catalog.DocumentTypes {
		t.Run(dt.ID, func(t *testing.T) {
			data, validation, err := registry.Parse(dt.ID, "Mock text extraction for test.pdf")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(data) == 0 {
				t.Error("Expected extracted data")
			}
			// Synthetic fallback always satisfies the catalog
			if !validation.IsValid {
				t.Errorf("Expected valid document, missing: %v", validation.MissingFields)
			}
			if validation.Confidence != 1.0 {
				t.Errorf("Expected confidence 1.0, got %f", validation.Confidence)
			}

			for _, field := range catalog.RequiredDocumentFields(dt.ID) {
				if model.IsFalsy(data[field]) {
					t.Errorf("Expected required field %s to be populated", field)
				}
			}
		})
	}
}

func TestSyntheticRecordsAreUniquelyTagged(t *testing.T) {
	registry := NewRegistry()

	first, _, err := registry.Parse("epc", "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, _, err := registry.Parse("epc", "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if first["epc_code"] == second["epc_code"] {
		t.Errorf("Expected distinct synthetic codes, both were %v", first["epc_code"])
	}
}

func TestEPCStrategyExtractsFromText(t *testing.T) {
	text := `ENERGIEPRESTATIECERTIFICAAT
EPC-2024-1234-5678
Datum: 15/03/2024
Label: C
Primair energieverbruik: 250 kWh/m²`

	data := epcStrategy{}.Parse(text)

	if data["epc_code"] != "EPC-2024-1234-5678" {
		t.Errorf("Expected code from text, got %v", data["epc_code"])
	}
	if data["epc_datum"] != "2024-03-15" {
		t.Errorf("Expected normalized date, got %v", data["epc_datum"])
	}
	if data["epc_label"] != "C" {
		t.Errorf("Expected label C, got %v", data["epc_label"])
	}
	if data["epc_score"] != "250 kWh/m²" {
		t.Errorf("Expected score from text, got %v", data["epc_score"])
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"slash format", "Datum: 15/03/2024", "2024-03-15"},
		{"dash format", "opgemaakt 01-12-2023", "2023-12-01"},
		{"short year", "geldig vanaf 5/6/24", "2024-06-05"},
		{"single digits", "op 1/2/2024", "2024-02-01"},
		{"no date", "geen datum hier", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.text); got != tt.want {
				t.Errorf("ExtractDate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindField(t *testing.T) {
	text := `KADASTRALE LEGGER
Afdeling: 2
Sectie: B
Oppervlakte: 620 m²`

	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{"simple", []string{"Afdeling"}, "2"},
		{"case insensitive", []string{"sectie"}, "B"},
		{"earliest matching line wins", []string{"Oppervlakte", "Afdeling"}, "2"},
		{"not found", []string{"Eigenaar"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindField(text, tt.keywords...); got != tt.want {
				t.Errorf("FindField(%v) = %q, want %q", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestValidateMissingFields(t *testing.T) {
	validation := Validate("epc", map[string]any{"epc_code": "EPC-2024-AAAA"})

	if validation.IsValid {
		t.Error("Expected invalid document")
	}
	if len(validation.MissingFields) != 1 || validation.MissingFields[0] != "epc_datum" {
		t.Errorf("Expected epc_datum missing, got %v", validation.MissingFields)
	}
	if validation.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", validation.Confidence)
	}
}

func TestValidateFalsyCountsAsMissing(t *testing.T) {
	validation := Validate("epc", map[string]any{"epc_code": "", "epc_datum": "2024-03-15"})

	if validation.IsValid {
		t.Error("Expected invalid document for falsy required field")
	}
	if len(validation.MissingFields) != 1 || validation.MissingFields[0] != "epc_code" {
		t.Errorf("Expected epc_code missing, got %v", validation.MissingFields)
	}
}

func TestValidateNoRequirements(t *testing.T) {
	// Types without required fields trivially succeed with confidence 1.0
	validation := Validate("stookolie", map[string]any{})

	if !validation.IsValid {
		t.Error("Expected valid document")
	}
	if validation.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0 by convention, got %f", validation.Confidence)
	}
	if len(validation.MissingFields) != 0 {
		t.Errorf("Expected no missing fields, got %v", validation.MissingFields)
	}
}
