package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Contract is the aggregate for one in-progress sale-contract workflow.
// FormData holds the union of all fields ever merged in; keys are never
// removed, only added or overwritten (last write wins).
type Contract struct {
	ID          string                     `json:"id"`
	Status      string                     `json:"status"` // draft, validated, generated
	FormData    map[string]any             `json:"form_data"`
	Documents   map[string]*DocumentRecord `json:"documents"`
	Validation  *ValidationResult          `json:"validation,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	GeneratedAt *time.Time                 `json:"generated_at,omitempty"`
	OutputFile  string                     `json:"output_file,omitempty"`
}

// Contract status constants. Progression is monotonic: draft ->
// validated -> generated; a status never regresses automatically.
const (
	StatusDraft     = "draft"
	StatusValidated = "validated"
	StatusGenerated = "generated"
)

// DocumentRecord is the result of processing one uploaded file of a
// given document type. It is immutable once created and replaced
// wholesale when the same type is uploaded again.
type DocumentRecord struct {
	DocumentType  string             `json:"document_type"`
	StorageRef    string             `json:"storage_ref"`
	Filename      string             `json:"filename"`
	UploadedAt    time.Time          `json:"uploaded_at"`
	ExtractedData map[string]any     `json:"extracted_data"`
	Validation    DocumentValidation `json:"validation"`
}

// DocumentValidation is the per-document confidence report, scoped to
// one document type only.
type DocumentValidation struct {
	IsValid       bool     `json:"is_valid"`
	Confidence    float64  `json:"confidence"`
	MissingFields []string `json:"missing_fields"`
}

// ValidationResult is a snapshot of business-rule compliance at the
// moment it was computed. It is not recomputed on mutation.
type ValidationResult struct {
	IsValid     bool      `json:"is_valid"`
	Errors      []string  `json:"errors"`
	Warnings    []string  `json:"warnings"`
	ValidatedAt time.Time `json:"validated_at"`
}

// NewContract returns an empty draft aggregate.
func NewContract(id string) *Contract {
	now := time.Now()
	return &Contract{
		ID:        id,
		Status:    StatusDraft,
		FormData:  make(map[string]any),
		Documents: make(map[string]*DocumentRecord),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeFieldValue reduces a decoded JSON value to the closed scalar
// set (string, float64, bool). Integers are widened to float64 so that
// values survive a JSON round trip unchanged.
func NormalizeFieldValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return val, nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFieldValue, val.String())
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidFieldValue, v)
	}
}

// MergeFields merges a partial field mapping into FormData with
// overwrite-on-conflict semantics. All values are type-checked before
// any of them is applied, so a bad value never leaves a partial merge.
func (c *Contract) MergeFields(fields map[string]any) error {
	normalized := make(map[string]any, len(fields))
	for key, v := range fields {
		nv, err := NormalizeFieldValue(v)
		if err != nil {
			return fmt.Errorf("veld %s: %w", key, err)
		}
		normalized[key] = nv
	}

	for key, v := range normalized {
		c.FormData[key] = v
	}
	c.UpdatedAt = time.Now()
	return nil
}

// AttachDocument replaces any existing record for the same document
// type and merges the extracted data into FormData; the new document's
// fields win over previously stored values for the same key.
func (c *Contract) AttachDocument(rec *DocumentRecord) error {
	if err := c.MergeFields(rec.ExtractedData); err != nil {
		return err
	}
	c.Documents[rec.DocumentType] = rec
	return nil
}

// Clone returns a deep copy for snapshot reads, so callers never hold a
// reference into the store's mutable state.
func (c *Contract) Clone() *Contract {
	cp := *c

	cp.FormData = make(map[string]any, len(c.FormData))
	for k, v := range c.FormData {
		cp.FormData[k] = v
	}

	cp.Documents = make(map[string]*DocumentRecord, len(c.Documents))
	for k, rec := range c.Documents {
		recCopy := *rec
		recCopy.ExtractedData = make(map[string]any, len(rec.ExtractedData))
		for fk, fv := range rec.ExtractedData {
			recCopy.ExtractedData[fk] = fv
		}
		recCopy.Validation.MissingFields = append([]string(nil), rec.Validation.MissingFields...)
		cp.Documents[k] = &recCopy
	}

	if c.Validation != nil {
		v := *c.Validation
		v.Errors = append([]string(nil), c.Validation.Errors...)
		v.Warnings = append([]string(nil), c.Validation.Warnings...)
		cp.Validation = &v
	}
	if c.GeneratedAt != nil {
		t := *c.GeneratedAt
		cp.GeneratedAt = &t
	}

	return &cp
}

// IsFalsy reports whether a field value counts as absent for
// validation: empty or whitespace-only strings, false and zero.
func IsFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case float64:
		return val == 0
	default:
		return false
	}
}

// NumericValue parses a field value as a number. Strings are parsed
// with strconv so unparseable numeric input surfaces instead of being
// silently coerced to zero.
func NumericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
