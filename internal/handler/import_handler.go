package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/evently/evently-backend-go/internal/importer"
	"github.com/evently/evently-backend-go/pkg/response"
)

// ImportHandler serves the CSV import endpoint
type ImportHandler struct {
	importer *importer.Importer
	dataDir  string
}

// NewImportHandler creates an import handler rooted at the configured
// data directory.
func NewImportHandler(imp *importer.Importer, dataDir string) *ImportHandler {
	return &ImportHandler{importer: imp, dataDir: dataDir}
}

type importRequest struct {
	// Dir overrides the configured data directory when set
	Dir string `json:"dir"`
}

// Import handles POST /import
func (h *ImportHandler) Import(c *gin.Context) {
	var req importRequest
	// The body is optional; an empty request imports the default dir
	_ = c.ShouldBindJSON(&req)

	dir := h.dataDir
	if req.Dir != "" {
		dir = req.Dir
	}

	report, err := h.importer.ImportDirectory(dir)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"report":   report,
		"imported": report.TotalImported(),
		"failed":   report.TotalFailed(),
	})
}
