package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

// buildRequest is the patch payload posted back by the workflow engine.
// Replacement keys are paragraph indices as decimal strings.
type buildRequest struct {
	Replacements   map[string]string `json:"replacements"`
	OriginalBase64 string            `json:"originalBase64"`
	Filename       string            `json:"filename"`
}

type buildResponse struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
}

// Build applies index-addressed replacements to the original document and
// returns the repacked file. Unresolvable indices are skipped with a
// diagnostic; they never fail the batch.
func (h *Handler) Build(c *gin.Context) {
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if len(req.Replacements) == 0 || req.OriginalBase64 == "" || req.Filename == "" {
		respondError(c, http.StatusBadRequest, "missing_fields",
			errors.New("replacements, originalBase64 and filename are required"))
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.OriginalBase64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_base64", err)
		return
	}
	if int64(len(raw)) > h.cfg.Server.MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			errors.New("document exceeds the configured size limit"))
		return
	}

	doc, err := docx.Open(raw)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "malformed_docx", err)
		return
	}

	replacements := make(map[int]string, len(req.Replacements))
	for key, text := range req.Replacements {
		index, err := strconv.Atoi(key)
		if err != nil {
			h.log.Warn("skipped non-index replacement key",
				zap.String("requestID", c.GetString(requestIDKey)),
				zap.String("key", key))
			continue
		}
		replacements[index] = text
	}

	out, skipped, err := doc.Patch(replacements)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "malformed_docx", err)
		return
	}
	for _, s := range skipped {
		h.log.Warn("skipped unresolvable edit",
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.String("filename", req.Filename),
			zap.Int("index", s.Index),
			zap.String("reason", s.Reason))
	}

	c.JSON(http.StatusOK, buildResponse{
		File:     base64.StdEncoding.EncodeToString(out),
		Filename: enhancedFilename(req.Filename),
	})
}
