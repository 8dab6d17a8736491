// Package webhook is the client side of the external text-generation
// collaborator (an n8n webhook in the reference deployment). The service
// ships the addressed paragraph list there and gets back either a finished
// document or a replacements map to patch locally.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/section"
)

// ErrUpstream marks any failure of the external generator: connection
// errors, non-2xx statuses and malformed bodies. Handlers map it to a
// distinct upstream-unavailable response instead of a generic 500.
var ErrUpstream = errors.New("webhook: upstream generator failure")

// EnhanceRequest is the extraction payload. Exactly one of Paragraphs or
// Texts is set, depending on the selection policy.
type EnhanceRequest struct {
	OriginalBase64 string                     `json:"originalBase64"`
	Filename       string                     `json:"filename"`
	Paragraphs     []section.IndexedParagraph `json:"paragraphs,omitempty"`
	Texts          map[string]string          `json:"texts,omitempty"`
}

// EnhanceResponse is what the generator answers with. Generators that call
// back into the build endpoint return the finished file; generators that
// leave patching to us return a replacements object keyed by paragraph
// index (decimal strings, as JSON object keys).
type EnhanceResponse struct {
	// File is the base64 document when the generator built it itself.
	File     string
	Filename string
	// Replacements maps paragraph index to new text when it did not.
	Replacements map[int]string
}

type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Enhance posts the extraction payload and decodes either response shape.
// The context bounds the whole round trip; the core's own work is never
// under this deadline.
func (c *Client) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: no webhook URL configured", ErrUpstream)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("webhook: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("webhook: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("generator returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(respBody, 512)))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return decodeResponse(respBody)
}

// decodeResponse distinguishes the two documented response shapes.
func decodeResponse(body []byte) (*EnhanceResponse, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %v", ErrUpstream, err)
	}

	if fileRaw, ok := raw["file"]; ok {
		out := &EnhanceResponse{}
		if err := json.Unmarshal(fileRaw, &out.File); err != nil || out.File == "" {
			return nil, fmt.Errorf("%w: response missing file content", ErrUpstream)
		}
		if nameRaw, ok := raw["filename"]; ok {
			_ = json.Unmarshal(nameRaw, &out.Filename)
		}
		if out.Filename == "" {
			return nil, fmt.Errorf("%w: response missing filename", ErrUpstream)
		}
		return out, nil
	}

	// Replacements shape: every key must be a paragraph index, every value
	// a string. Section-keyed answers (dayN) are the generator's concern to
	// resolve before responding; this client only speaks indices.
	replacements := make(map[int]string, len(raw))
	for key, valRaw := range raw {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: non-index key %q in replacements", ErrUpstream, key)
		}
		var text string
		if err := json.Unmarshal(valRaw, &text); err != nil {
			return nil, fmt.Errorf("%w: non-string replacement for index %s", ErrUpstream, key)
		}
		replacements[index] = text
	}
	if len(replacements) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	return &EnhanceResponse{Replacements: replacements}, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
