package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		want   float64
		wantOK bool
	}{
		{"floats", map[string]any{"prijs_totaal": float64(350000), "voorschot_bedrag": float64(35000)}, 315000, true},
		{"numeric strings", map[string]any{"prijs_totaal": "100000", "voorschot_bedrag": "2500"}, 97500, true},
		{"missing price", map[string]any{"voorschot_bedrag": float64(35000)}, 0, false},
		{"missing deposit", map[string]any{"prijs_totaal": float64(350000)}, 0, false},
		{"non-numeric", map[string]any{"prijs_totaal": "veel", "voorschot_bedrag": "35000"}, 0, false},
		{"falsy price", map[string]any{"prijs_totaal": "", "voorschot_bedrag": "35000"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Balance(tt.data)
			if ok != tt.wantOK {
				t.Fatalf("Balance ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Balance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderToFile(t *testing.T) {
	renderer := NewRenderer()
	renderer.Now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	formData := map[string]any{
		"verkoper_naam":            "Janssens",
		"verkoper_voornaam":        "Marc",
		"verkoper_adres":           "Kerkstraat 1, 9000 Gent",
		"koper_naam":               "Peeters",
		"koper_voornaam":           "An",
		"koper_adres":              "Stationsstraat 5, 2000 Antwerpen",
		"goed_straat":              "Molenweg",
		"goed_nummer":              "12",
		"goed_postcode":            "9000",
		"goed_gemeente":            "Gent",
		"prijs_totaal":             float64(350000),
		"voorschot_bedrag":         float64(35000),
		"epc_code":                 "EPC-2024-1234",
		"epc_label":                "C",
		"epc_datum":                "2024-03-15",
		"goed_kadastrale_afdeling": "2",
		"goed_kadastrale_sectie":   "B",
	}

	path := filepath.Join(t.TempDir(), "contract.docx")
	if err := renderer.RenderToFile(formData, path); err != nil {
		t.Fatalf("RenderToFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty docx file")
	}
}

func TestRenderToFileMinimalData(t *testing.T) {
	// Optional sections are skipped when their anchor fields are absent
	renderer := NewRenderer()

	path := filepath.Join(t.TempDir(), "contract.docx")
	if err := renderer.RenderToFile(map[string]any{}, path); err != nil {
		t.Fatalf("RenderToFile failed on empty data: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty docx file")
	}
}

func TestRenderToFileBadPath(t *testing.T) {
	renderer := NewRenderer()

	err := renderer.RenderToFile(map[string]any{}, filepath.Join(t.TempDir(), "missing", "contract.docx"))
	if err == nil {
		t.Error("Expected error for unwritable path")
	}
}
