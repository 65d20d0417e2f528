package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/catalog"
	"github.com/azertyfreak/makelaar-contract-generator/config"
	"github.com/azertyfreak/makelaar-contract-generator/model"
	"github.com/azertyfreak/makelaar-contract-generator/parser"
	"github.com/azertyfreak/makelaar-contract-generator/service"
	"github.com/gin-gonic/gin"
)

// allowedExtensions is the fixed allow-list for uploaded documents.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type ContractHandler struct {
	store     *service.ContractStore
	registry  *parser.Registry
	extractor service.TextExtractor
	files     service.FileStore
	renderer  *service.Renderer
	storage   *config.StorageConfig
}

func NewContractHandler(
	store *service.ContractStore,
	registry *parser.Registry,
	extractor service.TextExtractor,
	files service.FileStore,
	renderer *service.Renderer,
	storage *config.StorageConfig,
) *ContractHandler {
	return &ContractHandler{
		store:     store,
		registry:  registry,
		extractor: extractor,
		files:     files,
		renderer:  renderer,
		storage:   storage,
	}
}

// respondError maps sentinel error kinds to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrContractNotFound),
		errors.Is(err, model.ErrArtifactMissing):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrUnknownDocumentType),
		errors.Is(err, model.ErrUnsupportedFileFormat),
		errors.Is(err, model.ErrInvalidFieldValue),
		errors.Is(err, model.ErrNotYetValid),
		errors.Is(err, model.ErrNotYetGenerated):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Create starts a new draft contract
func (h *ContractHandler) Create(c *gin.Context) {
	contract := h.store.Create()

	logger(c).Info("contract created", "contract_id", contract.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"contract_id": contract.ID,
	})
}

// Upload stores one document, extracts its text, parses it with the
// strategy for the declared type and merges the result into the
// contract's form data.
func (h *ContractHandler) Upload(c *gin.Context) {
	contractID := c.Param("id")
	if _, err := h.store.Get(contractID); err != nil {
		respondError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geen file gevonden"})
		return
	}
	defer file.Close()

	docType := c.PostForm("doc_type")
	if docType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doc_type is verplicht"})
		return
	}
	if !catalog.IsKnownType(docType) {
		respondError(c, fmt.Errorf("%w: %s", model.ErrUnknownDocumentType, docType))
		return
	}

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geen file geselecteerd"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		respondError(c, fmt.Errorf("%w: %s", model.ErrUnsupportedFileFormat, ext))
		return
	}

	// Reject oversized uploads before any processing
	if header.Size > h.storage.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("Bestand is te groot (max %dMB)", h.storage.MaxUploadBytes/(1024*1024)),
		})
		return
	}

	// Read once; the bytes feed both the file store and the extractor.
	content, err := io.ReadAll(io.LimitReader(file, h.storage.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file: " + err.Error()})
		return
	}
	if int64(len(content)) > h.storage.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("Bestand is te groot (max %dMB)", h.storage.MaxUploadBytes/(1024*1024)),
		})
		return
	}

	objectName := fmt.Sprintf("%s/%s_%s", contractID, docType, filepath.Base(header.Filename))
	storageRef, err := h.files.Save(c.Request.Context(), objectName,
		bytes.NewReader(content), int64(len(content)), service.ContentTypeForExt(ext))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file: " + err.Error()})
		return
	}

	text, err := h.extractor.Extract(c.Request.Context(), header.Filename, bytes.NewReader(content))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract text: " + err.Error()})
		return
	}

	extracted, docValidation, err := h.registry.Parse(docType, text)
	if err != nil {
		respondError(c, err)
		return
	}

	rec := &model.DocumentRecord{
		DocumentType:  docType,
		StorageRef:    storageRef,
		Filename:      header.Filename,
		UploadedAt:    time.Now(),
		ExtractedData: extracted,
		Validation:    docValidation,
	}
	if err := h.store.AttachDocument(contractID, rec); err != nil {
		respondError(c, err)
		return
	}

	logger(c).Info("document processed",
		"contract_id", contractID,
		"doc_type", docType,
		"confidence", docValidation.Confidence,
		"fields", len(extracted),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"extracted_data": extracted,
		"validation":     docValidation,
		"message":        fmt.Sprintf("Document %s verwerkt", docType),
	})
}

// GetData returns a snapshot of the full aggregate state
func (h *ContractHandler) GetData(c *gin.Context) {
	contract, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contract,
	})
}

// UpdateData merges direct field edits into the contract's form data
func (h *ContractHandler) UpdateData(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.store.UpdateFields(c.Param("id"), fields); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data bijgewerkt",
	})
}

// Validate runs the validation engine against the contract's current
// state and stores the resulting snapshot on the aggregate.
func (h *ContractHandler) Validate(c *gin.Context) {
	contractID := c.Param("id")
	contract, err := h.store.Get(contractID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := service.ValidateContract(contract.FormData, contract.Documents)
	if err := h.store.SetValidation(contractID, result); err != nil {
		respondError(c, err)
		return
	}

	logger(c).Info("contract validated",
		"contract_id", contractID,
		"is_valid", result.IsValid,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"validation": result,
	})
}

// Generate renders the contract document. It refuses to proceed unless
// the most recent validation snapshot is valid, surfacing the blocking
// errors instead of attempting a partial render.
func (h *ContractHandler) Generate(c *gin.Context) {
	contractID := c.Param("id")
	contract, err := h.store.Get(contractID)
	if err != nil {
		respondError(c, err)
		return
	}

	if contract.Validation == nil || !contract.Validation.IsValid {
		var blocking []string
		if contract.Validation != nil {
			blocking = contract.Validation.Errors
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Contract is niet valide. Valideer eerst.",
			"errors":  blocking,
		})
		return
	}

	if err := os.MkdirAll(h.storage.ContractsDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare output directory: " + err.Error()})
		return
	}

	outputFile := fmt.Sprintf("contract_%s.docx", contractID)
	outputPath := filepath.Join(h.storage.ContractsDir, outputFile)
	if err := h.renderer.RenderToFile(contract.FormData, outputPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate contract: " + err.Error()})
		return
	}

	if err := h.store.MarkGenerated(contractID, outputFile); err != nil {
		respondError(c, err)
		return
	}

	logger(c).Info("contract generated", "contract_id", contractID, "output_file", outputFile)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Contract gegenereerd",
		"download_url": fmt.Sprintf("/api/contract/%s/download", contractID),
	})
}

// Download streams the generated contract document
func (h *ContractHandler) Download(c *gin.Context) {
	contract, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if contract.OutputFile == "" {
		respondError(c, model.ErrNotYetGenerated)
		return
	}

	outputPath := filepath.Join(h.storage.ContractsDir, contract.OutputFile)
	if _, err := os.Stat(outputPath); err != nil {
		respondError(c, model.ErrArtifactMissing)
		return
	}

	downloadName := fmt.Sprintf("verkoopovereenkomst_%s.docx", time.Now().Format("20060102"))
	c.FileAttachment(outputPath, downloadName)
}

// List returns summaries for all contracts, newest created first
func (h *ContractHandler) List(c *gin.Context) {
	contracts := h.store.List()

	result := make([]gin.H, len(contracts))
	for i, contract := range contracts {
		result[i] = gin.H{
			"id":             contract.ID,
			"created_at":     contract.CreatedAt.Format(time.RFC3339),
			"status":         contract.Status,
			"has_validation": contract.Validation != nil,
			"document_count": len(contract.Documents),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"contracts": result,
	})
}

// DocumentTypes returns the closed set of supported document types
func (h *ContractHandler) DocumentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"document_types": catalog.DocumentTypes,
	})
}
