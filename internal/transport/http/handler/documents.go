package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/config"
	"veridoc/internal/docproc"
	"veridoc/internal/orchestrator"
	"veridoc/internal/repository"
	"veridoc/internal/transport/http/response"
)

type DocumentsHandler struct {
	orch    *orchestrator.Orchestrator
	docRepo *repository.DocumentRepository
	storage config.StorageConfig
}

func NewDocumentsHandler(orch *orchestrator.Orchestrator, docRepo *repository.DocumentRepository, storage config.StorageConfig) *DocumentsHandler {
	return &DocumentsHandler{
		orch:    orch,
		docRepo: docRepo,
		storage: storage,
	}
}

// Upload accepts a multipart form with "file", stores it in the upload dir,
// and runs the ingestion pipeline.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > h.storage.MaxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge,
			fmt.Sprintf("file too large (max %d bytes)", h.storage.MaxUploadBytes))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !docproc.SupportedExtension(ext) {
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat,
			"unsupported file format: "+ext)
		return
	}

	if err := os.MkdirAll(h.storage.UploadDir, 0o755); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "prepare upload dir failed")
		return
	}
	storedPath := filepath.Join(h.storage.UploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "store upload failed")
		return
	}

	result := h.orch.ProcessDocument(c.Request.Context(), storedPath)
	if !result.Success {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeInternalServer,
			"ingest failed: "+result.Error)
		return
	}
	response.OK(c, result)
}

func (h *DocumentsHandler) List(c *gin.Context) {
	records, err := h.docRepo.List(0)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, records)
}
