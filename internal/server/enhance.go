package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/config"
	"github.com/nuritravel/go-docx-enhancer/internal/docx"
	"github.com/nuritravel/go-docx-enhancer/internal/section"
	"github.com/nuritravel/go-docx-enhancer/internal/webhook"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Enhancer is the external text-generation collaborator.
type Enhancer interface {
	Enhance(ctx context.Context, req webhook.EnhanceRequest) (*webhook.EnhanceResponse, error)
}

// Handler serves the enhancement endpoints.
type Handler struct {
	cfg      *config.Config
	log      *zap.Logger
	enhancer Enhancer
}

func NewHandler(cfg *config.Config, log *zap.Logger, enhancer Enhancer) *Handler {
	return &Handler{cfg: cfg, log: log, enhancer: enhancer}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Enhance handles the document upload: parse, select, send to the external
// generator, and either stream back the generator's file or patch the
// returned replacements into the original locally.
func (h *Handler) Enhance(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing_file", errors.New("no file uploaded"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".docx") {
		respondError(c, http.StatusBadRequest, "wrong_extension", errors.New("only .docx files are accepted"))
		return
	}
	if fileHeader.Size > h.cfg.Server.MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", h.cfg.Server.MaxUploadBytes))
		return
	}

	policy := c.PostForm("policy")
	if policy == "" {
		policy = h.cfg.Policy.Default
	}
	if policy != section.PolicyIndex && policy != section.PolicyHeading {
		respondError(c, http.StatusBadRequest, "unknown_policy", fmt.Errorf("unknown policy %q", policy))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable_upload", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable_upload", err)
		return
	}

	doc, err := docx.Open(raw)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "malformed_docx", err)
		return
	}

	req := webhook.EnhanceRequest{
		OriginalBase64: base64.StdEncoding.EncodeToString(raw),
		Filename:       fileHeader.Filename,
	}

	switch policy {
	case section.PolicyHeading:
		sections, err := section.ExtractSections(doc.XML, doc.Paragraphs, h.cfg.Heading)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_policy_config", err)
			return
		}
		if len(sections) == 0 {
			respondError(c, http.StatusUnprocessableEntity, "sections_not_found",
				errors.New("no matching sections found in the document"))
			return
		}
		req.Texts = sections
	default:
		req.Paragraphs = section.SelectAll(doc.Paragraphs)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Webhook.Timeout)
	defer cancel()

	resp, err := h.enhancer.Enhance(ctx, req)
	if err != nil {
		h.log.Error("generator call failed",
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		respondError(c, http.StatusBadGateway, "upstream_unavailable", err)
		return
	}

	if resp.File != "" {
		out, err := base64.StdEncoding.DecodeString(resp.File)
		if err != nil {
			respondError(c, http.StatusBadGateway, "upstream_unavailable",
				fmt.Errorf("generator returned invalid base64: %w", err))
			return
		}
		h.sendDocx(c, out, resp.Filename)
		return
	}

	out, skipped, err := doc.Patch(resp.Replacements)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "malformed_docx", err)
		return
	}
	for _, s := range skipped {
		h.log.Warn("skipped unresolvable edit",
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.Int("index", s.Index),
			zap.String("reason", s.Reason))
	}

	h.sendDocx(c, out, enhancedFilename(fileHeader.Filename))
}

func (h *Handler) sendDocx(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.Data(http.StatusOK, docxContentType, data)
}

func enhancedFilename(original string) string {
	base := original
	if idx := strings.LastIndex(strings.ToLower(base), ".docx"); idx >= 0 {
		base = base[:idx]
	}
	return base + "_enhanced.docx"
}
