package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/config"
	"github.com/nuritravel/go-docx-enhancer/internal/docx"
	"github.com/nuritravel/go-docx-enhancer/internal/webhook"
)

type fakeEnhancer struct {
	lastReq  webhook.EnhanceRequest
	response *webhook.EnhanceResponse
	err      error
}

func (f *fakeEnhancer) Enhance(_ context.Context, req webhook.EnhanceRequest) (*webhook.EnhanceResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func testConfig() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	cfg.Server.InternalSecret = "test-secret"
	return cfg
}

func newTestRouter(cfg *config.Config, enhancer Enhancer) *gin.Engine {
	log := zap.NewNop()
	return NewRouter(NewHandler(cfg, log, enhancer), log, cfg.Server.InternalSecret)
}

func sampleDocx(t *testing.T, texts ...string) []byte {
	t.Helper()
	var xml strings.Builder
	xml.WriteString("<w:document><w:body>")
	for _, text := range texts {
		fmt.Fprintf(&xml, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", text)
	}
	xml.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   xml.String(),
		"word/styles.xml":     "<w:styles/>",
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestEnhanceEndpoint(t *testing.T) {
	t.Run("IndexPolicyLocalPatch", func(t *testing.T) {
		raw := sampleDocx(t, "first", "second", "third")
		enhancer := &fakeEnhancer{
			response: &webhook.EnhanceResponse{
				Replacements: map[int]string{1: "rewritten & improved", 9: "out of range"},
			},
		}
		router := newTestRouter(testConfig(), enhancer)

		body, contentType := multipartUpload(t, "trip.docx", raw, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "trip_enhanced.docx")

		// The generator saw every paragraph with its index.
		require.Len(t, enhancer.lastReq.Paragraphs, 3)
		assert.Equal(t, "second", enhancer.lastReq.Paragraphs[1].Text)
		assert.NotEmpty(t, enhancer.lastReq.OriginalBase64)

		// The returned file reparses with the edit applied and the bad
		// index ignored.
		doc, err := docx.Open(rec.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, doc.Paragraphs, 3)
		assert.Equal(t, "first", doc.Paragraphs[0].Text)
		assert.Equal(t, "rewritten & improved", doc.Paragraphs[1].Text)
		assert.Equal(t, "third", doc.Paragraphs[2].Text)
	})

	t.Run("GeneratorBuiltFile", func(t *testing.T) {
		raw := sampleDocx(t, "content paragraph")
		built := sampleDocx(t, "generator output")
		enhancer := &fakeEnhancer{
			response: &webhook.EnhanceResponse{
				File:     base64.StdEncoding.EncodeToString(built),
				Filename: "trip_enhanced.docx",
			},
		}
		router := newTestRouter(testConfig(), enhancer)

		body, contentType := multipartUpload(t, "trip.docx", raw, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, built, rec.Body.Bytes())
	})

	t.Run("MissingFile", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", strings.NewReader(""))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("WrongExtension", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		body, contentType := multipartUpload(t, "notes.txt", []byte("text"), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("FileTooLarge", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.MaxUploadBytes = 16
		router := newTestRouter(cfg, &fakeEnhancer{})

		body, contentType := multipartUpload(t, "big.docx", bytes.Repeat([]byte("x"), 64), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("MalformedContainer", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		body, contentType := multipartUpload(t, "fake.docx", []byte("not a zip"), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		raw := sampleDocx(t, "paragraph")
		enhancer := &fakeEnhancer{err: fmt.Errorf("%w: status 500", webhook.ErrUpstream)}
		router := newTestRouter(testConfig(), enhancer)

		body, contentType := multipartUpload(t, "trip.docx", raw, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var envelope struct {
			Error APIError `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "upstream_unavailable", envelope.Error.Code)
	})

	t.Run("HeadingPolicyWithoutSections", func(t *testing.T) {
		raw := sampleDocx(t, "no headings anywhere in this document at all")
		router := newTestRouter(testConfig(), &fakeEnhancer{})

		body, contentType := multipartUpload(t, "trip.docx", raw, map[string]string{"policy": "heading"})
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		raw := sampleDocx(t, "paragraph")
		router := newTestRouter(testConfig(), &fakeEnhancer{})

		body, contentType := multipartUpload(t, "trip.docx", raw, map[string]string{"policy": "fingerprint"})
		req := httptest.NewRequest(http.MethodPost, "/api/enhance", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBuildEndpoint(t *testing.T) {
	postBuild := func(t *testing.T, router *gin.Engine, payload any, secret string) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/build-docx", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set("X-Internal-Secret", secret)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("AppliesReplacements", func(t *testing.T) {
		raw := sampleDocx(t, "alpha", "beta", "gamma")
		router := newTestRouter(testConfig(), &fakeEnhancer{})

		rec := postBuild(t, router, map[string]any{
			"replacements":   map[string]string{"0": "updated alpha", "2": "updated gamma", "50": "nowhere"},
			"originalBase64": base64.StdEncoding.EncodeToString(raw),
			"filename":       "itinerary.docx",
		}, "test-secret")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			File     string `json:"file"`
			Filename string `json:"filename"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "itinerary_enhanced.docx", resp.Filename)

		out, err := base64.StdEncoding.DecodeString(resp.File)
		require.NoError(t, err)
		doc, err := docx.Open(out)
		require.NoError(t, err)
		require.Len(t, doc.Paragraphs, 3)
		assert.Equal(t, "updated alpha", doc.Paragraphs[0].Text)
		assert.Equal(t, "beta", doc.Paragraphs[1].Text)
		assert.Equal(t, "updated gamma", doc.Paragraphs[2].Text)
	})

	t.Run("RequiresSecret", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		rec := postBuild(t, router, map[string]any{}, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = postBuild(t, router, map[string]any{}, "wrong")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		rec := postBuild(t, router, map[string]any{
			"replacements": map[string]string{"0": "text"},
		}, "test-secret")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		router := newTestRouter(testConfig(), &fakeEnhancer{})
		rec := postBuild(t, router, map[string]any{
			"replacements":   map[string]string{"0": "text"},
			"originalBase64": "!!! not base64 !!!",
			"filename":       "x.docx",
		}, "test-secret")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MissingDocumentEntry", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("word/styles.xml")
		require.NoError(t, err)
		_, err = f.Write([]byte("<w:styles/>"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		router := newTestRouter(testConfig(), &fakeEnhancer{})
		rec := postBuild(t, router, map[string]any{
			"replacements":   map[string]string{"0": "text"},
			"originalBase64": base64.StdEncoding.EncodeToString(buf.Bytes()),
			"filename":       "x.docx",
		}, "test-secret")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(testConfig(), &fakeEnhancer{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
