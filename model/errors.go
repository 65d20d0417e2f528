package model

import "errors"

// Sentinel errors for the caller-facing operations. Handlers translate
// these into HTTP status codes with errors.Is; validation-rule
// violations are never errors, they are accumulated in ValidationResult.
var (
	// ErrContractNotFound means the contract id is not present in the store
	ErrContractNotFound = errors.New("contract niet gevonden")

	// ErrUnknownDocumentType means the document type is outside the closed set
	ErrUnknownDocumentType = errors.New("onbekend document type")

	// ErrUnsupportedFileFormat means the uploaded file extension is not allowed
	ErrUnsupportedFileFormat = errors.New("bestandstype niet toegestaan")

	// ErrNotYetValid means generation was requested without a valid validation run
	ErrNotYetValid = errors.New("contract is niet valide")

	// ErrNotYetGenerated means a download was requested before generation
	ErrNotYetGenerated = errors.New("contract nog niet gegenereerd")

	// ErrArtifactMissing means the generated file disappeared from storage
	ErrArtifactMissing = errors.New("gegenereerd bestand niet gevonden")

	// ErrInvalidFieldValue means a merged field value is not a scalar
	ErrInvalidFieldValue = errors.New("veldwaarde moet een tekst, getal of boolean zijn")
)
