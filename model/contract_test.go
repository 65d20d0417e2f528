package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewContract(t *testing.T) {
	contract := NewContract("test-id")

	if contract.ID != "test-id" {
		t.Errorf("Expected id test-id, got %s", contract.ID)
	}
	if contract.Status != StatusDraft {
		t.Errorf("Expected status draft, got %s", contract.Status)
	}
	if len(contract.FormData) != 0 {
		t.Errorf("Expected empty form data, got %d entries", len(contract.FormData))
	}
	if len(contract.Documents) != 0 {
		t.Errorf("Expected no documents, got %d", len(contract.Documents))
	}
	if contract.Validation != nil {
		t.Error("Expected no validation on a fresh contract")
	}
}

func TestMergeFieldsLastWriteWins(t *testing.T) {
	contract := NewContract("merge-test")

	if err := contract.MergeFields(map[string]any{"verkoper_naam": "Janssens", "prijs_totaal": "350000"}); err != nil {
		t.Fatalf("First merge failed: %v", err)
	}
	if err := contract.MergeFields(map[string]any{"verkoper_naam": "Peeters"}); err != nil {
		t.Fatalf("Second merge failed: %v", err)
	}

	if contract.FormData["verkoper_naam"] != "Peeters" {
		t.Errorf("Expected last write to win, got %v", contract.FormData["verkoper_naam"])
	}
	// Keys are never removed, only added or overwritten
	if contract.FormData["prijs_totaal"] != "350000" {
		t.Errorf("Expected untouched key to survive, got %v", contract.FormData["prijs_totaal"])
	}
}

func TestMergeFieldsRejectsNonScalars(t *testing.T) {
	contract := NewContract("type-test")
	contract.FormData["existing"] = "value"

	err := contract.MergeFields(map[string]any{
		"ok":  "fine",
		"bad": map[string]any{"nested": true},
	})
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Fatalf("Expected ErrInvalidFieldValue, got %v", err)
	}

	// A rejected merge must not leave a partial result
	if _, ok := contract.FormData["ok"]; ok {
		t.Error("Expected no partial merge after rejected value")
	}
}

func TestNormalizeFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    any
		wantErr bool
	}{
		{"string", "hello", "hello", false},
		{"bool", true, true, false},
		{"float", 12.5, 12.5, false},
		{"int widened", 42, float64(42), false},
		{"nil rejected", nil, nil, true},
		{"slice rejected", []string{"a"}, nil, true},
		{"map rejected", map[string]any{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFieldValue(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFieldValue) {
					t.Errorf("Expected ErrInvalidFieldValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAttachDocumentReplacesAndMerges(t *testing.T) {
	contract := NewContract("attach-test")

	first := &DocumentRecord{
		DocumentType:  "epc",
		StorageRef:    "ref-1",
		UploadedAt:    time.Now(),
		ExtractedData: map[string]any{"epc_code": "EPC-2024-AAAA", "epc_label": "C"},
		Validation:    DocumentValidation{IsValid: true, Confidence: 1.0},
	}
	if err := contract.AttachDocument(first); err != nil {
		t.Fatalf("First attach failed: %v", err)
	}

	second := &DocumentRecord{
		DocumentType:  "epc",
		StorageRef:    "ref-2",
		UploadedAt:    time.Now(),
		ExtractedData: map[string]any{"epc_code": "EPC-2024-BBBB"},
		Validation:    DocumentValidation{IsValid: true, Confidence: 1.0},
	}
	if err := contract.AttachDocument(second); err != nil {
		t.Fatalf("Second attach failed: %v", err)
	}

	if len(contract.Documents) != 1 {
		t.Errorf("Expected record replaced wholesale, got %d records", len(contract.Documents))
	}
	if contract.Documents["epc"].StorageRef != "ref-2" {
		t.Errorf("Expected new record to win, got %s", contract.Documents["epc"].StorageRef)
	}
	if contract.FormData["epc_code"] != "EPC-2024-BBBB" {
		t.Errorf("Expected second upload's field to win, got %v", contract.FormData["epc_code"])
	}
	// Fields only present in the first upload survive the merge
	if contract.FormData["epc_label"] != "C" {
		t.Errorf("Expected earlier field to survive, got %v", contract.FormData["epc_label"])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	contract := NewContract("clone-test")
	contract.FormData["key"] = "original"
	contract.Documents["epc"] = &DocumentRecord{
		DocumentType:  "epc",
		ExtractedData: map[string]any{"epc_code": "EPC-2024-AAAA"},
	}
	contract.Validation = &ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}

	clone := contract.Clone()
	clone.FormData["key"] = "changed"
	clone.Documents["epc"].ExtractedData["epc_code"] = "changed"
	clone.Validation.Errors = append(clone.Validation.Errors, "changed")

	if contract.FormData["key"] != "original" {
		t.Error("Clone shares form data with the original")
	}
	if contract.Documents["epc"].ExtractedData["epc_code"] != "EPC-2024-AAAA" {
		t.Error("Clone shares document data with the original")
	}
	if len(contract.Validation.Errors) != 0 {
		t.Error("Clone shares validation with the original")
	}
}

func TestIsFalsy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"whitespace", "   ", true},
		{"text", "x", false},
		{"false", false, true},
		{"true", true, false},
		{"zero", float64(0), true},
		{"number", float64(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFalsy(tt.value); got != tt.want {
				t.Errorf("IsFalsy(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"float", float64(350000), 350000, true},
		{"numeric string", "35000", 35000, true},
		{"string with spaces", " 2500 ", 2500, true},
		{"decimal string", "12.50", 12.5, true},
		{"non-numeric string", "veel geld", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NumericValue(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("NumericValue(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NumericValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
