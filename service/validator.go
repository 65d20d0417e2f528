package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/catalog"
	"github.com/azertyfreak/makelaar-contract-generator/model"
)

// MinimumDeposit is the usual lower bound for a deposit in euro; a
// lower deposit is advisory only, never blocking.
const MinimumDeposit = 2500

// depositShare is the fraction of the price above which a deposit
// triggers an advisory warning.
const depositShare = 0.3

// ValidateContract is a pure function from the contract's current form
// data and attached documents to a validation result. Rule violations
// accumulate as data; the only non-determinism is the ValidatedAt
// timestamp, so running it twice on unchanged state yields identical
// errors and warnings.
func ValidateContract(formData map[string]any, documents map[string]*model.DocumentRecord) *model.ValidationResult {
	errs := []string{}
	warnings := []string{}

	// Verplichte documenten
	for _, docType := range catalog.RequiredDocumentTypes() {
		if _, ok := documents[docType]; !ok {
			errs = append(errs, fmt.Sprintf("Document %s is verplicht", docType))
		}
	}

	// Verplichte velden
	for _, field := range catalog.RequiredContractFields {
		if model.IsFalsy(formData[field.Name]) {
			errs = append(errs, fmt.Sprintf("%s is verplicht", field.Label))
		}
	}

	// Business rules, evaluated only when both amounts are present
	prijsRaw, hasPrijs := formData["prijs_totaal"]
	voorschotRaw, hasVoorschot := formData["voorschot_bedrag"]
	if hasPrijs && hasVoorschot && !model.IsFalsy(prijsRaw) && !model.IsFalsy(voorschotRaw) {
		prijs, prijsOK := model.NumericValue(prijsRaw)
		voorschot, voorschotOK := model.NumericValue(voorschotRaw)

		if !prijsOK || !voorschotOK {
			errs = append(errs, "Prijs en voorschot moeten numerieke waarden zijn")
		} else {
			if voorschot > prijs {
				errs = append(errs, "Voorschot kan niet hoger zijn dan de koopprijs")
			}
			if voorschot < MinimumDeposit {
				warnings = append(warnings, "Voorschot is lager dan gebruikelijk minimum (€2.500)")
			}
			if voorschot > prijs*depositShare {
				warnings = append(warnings, "Voorschot is hoger dan 30% van de koopprijs")
			}
		}
	}

	// Minimal email check, intentionally not full RFC validation
	for _, field := range catalog.EmailFields {
		value, ok := formData[field]
		if !ok || model.IsFalsy(value) {
			continue
		}
		if str, isString := value.(string); !isString || !strings.Contains(str, "@") {
			errs = append(errs, fmt.Sprintf("%s is geen geldig email adres", field))
		}
	}

	return &model.ValidationResult{
		IsValid:     len(errs) == 0,
		Errors:      errs,
		Warnings:    warnings,
		ValidatedAt: time.Now(),
	}
}
