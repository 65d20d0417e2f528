package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/azertyfreak/makelaar-contract-generator/catalog"
	"github.com/azertyfreak/makelaar-contract-generator/middleware"
	"github.com/azertyfreak/makelaar-contract-generator/model"
	"github.com/azertyfreak/makelaar-contract-generator/service"
	"github.com/gin-gonic/gin"
)

func logger(c *gin.Context) *slog.Logger {
	return slog.Default().With("request_id", middleware.GetRequestID(c))
}

func field(formData map[string]any, key string) any {
	if v, ok := formData[key]; ok {
		return v
	}
	return ""
}

// Summary returns a preview of the contract: parties, property,
// financials, per-document status, certificates and a completion
// percentage over the 18-item checklist of mandatory documents and
// fields.
func (h *ContractHandler) Summary(c *gin.Context) {
	contract, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	formData := contract.FormData

	documents := gin.H{}
	for docType, rec := range contract.Documents {
		documents[docType] = gin.H{
			"uploaded":   true,
			"filename":   rec.Filename,
			"validation": rec.Validation,
		}
	}

	var saldo float64
	if s, ok := service.Balance(formData); ok {
		saldo = s
	}

	summary := gin.H{
		"contract_id": contract.ID,
		"status":      contract.Status,
		"created_at":  contract.CreatedAt,

		"parties": gin.H{
			"verkoper": gin.H{
				"naam":     field(formData, "verkoper_naam"),
				"voornaam": field(formData, "verkoper_voornaam"),
				"adres":    field(formData, "verkoper_adres"),
				"email":    field(formData, "verkoper_email"),
				"telefoon": field(formData, "verkoper_telefoonnummer"),
			},
			"koper": gin.H{
				"naam":     field(formData, "koper_naam"),
				"voornaam": field(formData, "koper_voornaam"),
				"adres":    field(formData, "koper_adres"),
				"email":    field(formData, "koper_email"),
				"telefoon": field(formData, "koper_telefoonnummer"),
			},
		},

		"property": gin.H{
			"adres":    fmt.Sprintf("%v %v", field(formData, "goed_straat"), field(formData, "goed_nummer")),
			"postcode": field(formData, "goed_postcode"),
			"gemeente": field(formData, "goed_gemeente"),
			"kadaster": gin.H{
				"afdeling":    field(formData, "goed_kadastrale_afdeling"),
				"sectie":      field(formData, "goed_kadastrale_sectie"),
				"nummer":      field(formData, "goed_kadastrale_nummer"),
				"oppervlakte": field(formData, "goed_kadastrale_oppervlakte"),
			},
		},

		"financieel": gin.H{
			"prijs_totaal": field(formData, "prijs_totaal"),
			"voorschot":    field(formData, "voorschot_bedrag"),
			"saldo":        saldo,
		},

		"documents": documents,

		"certificates": gin.H{
			"epc": gin.H{
				"code":  field(formData, "epc_code"),
				"label": field(formData, "epc_label"),
				"datum": field(formData, "epc_datum"),
			},
			"bodemattest": gin.H{
				"referentie": field(formData, "bodem_attest_referentie"),
				"datum":      field(formData, "bodem_attest_datum"),
			},
		},

		"completion_percentage": completionPercentage(contract),
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}

// completionPercentage counts attached mandatory documents and filled
// mandatory fields against the full checklist.
func completionPercentage(contract *model.Contract) int {
	total := len(catalog.RequiredDocumentTypes()) + len(catalog.RequiredContractFields)
	completed := 0

	for _, docType := range catalog.RequiredDocumentTypes() {
		if _, ok := contract.Documents[docType]; ok {
			completed++
		}
	}
	for _, f := range catalog.RequiredContractFields {
		if !model.IsFalsy(contract.FormData[f.Name]) {
			completed++
		}
	}

	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}
