package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VectorRAG/internal/rag/schema"
	"VectorRAG/internal/rag/splitters"
	"VectorRAG/internal/ragservice/service"
	"VectorRAG/pkg/logger"
	"VectorRAG/pkg/ratelimiter"
)

type stubEmbedder struct{ err error }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2}, nil
}

type stubGenerator struct{ answer string }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.answer, nil
}

type stubStore struct {
	searchRes []schema.RetrievedChunk
	searchErr error
}

func (s *stubStore) BulkInsert(ctx context.Context, chunks []schema.Chunk) error { return nil }

func (s *stubStore) Search(ctx context.Context, vector []float32, topK int) ([]schema.RetrievedChunk, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchRes, nil
}

type stubPDF struct{ text string }

func (s *stubPDF) Load(ctx context.Context, path string) (string, error) { return s.text, nil }

func newTestRouter(t *testing.T, embedder *stubEmbedder, generator *stubGenerator, store *stubStore, limiter *ratelimiter.KeyedLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	splitter, err := splitters.NewWordSplitter(5, 2)
	require.NoError(t, err)

	log := logger.New("api-test")
	svc := service.NewService(splitter, embedder, generator, store, &stubPDF{text: "pdf body text"}, 2, 5, log)

	router := gin.New()
	RegisterRoutes(router, NewAPI(svc, log), limiter)
	return router
}

func doRequest(router *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestDocument(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	body := bytes.NewBufferString(`{"text": "one two three four five six seven"}`)
	w := doRequest(router, http.MethodPost, "/api/v1/documents", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Document stored and indexed", resp["message"])
	assert.NotEmpty(t, resp["doc_id"])
	assert.Equal(t, float64(2), resp["chunks"])
}

func TestIngestDocument_EmptyTextIsZeroChunkSuccess(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	body := bytes.NewBufferString(`{"text": "   "}`)
	w := doRequest(router, http.MethodPost, "/api/v1/documents", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["chunks"])
	assert.NotEmpty(t, resp["doc_id"])
}

func TestIngestDocument_MalformedJSON(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	body := bytes.NewBufferString(`{"text": `)
	w := doRequest(router, http.MethodPost, "/api/v1/documents", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadPDF_RejectsNonPDFExtension(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := doRequest(router, http.MethodPost, "/api/v1/documents/pdf", &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadPDF_MissingFile(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	w := doRequest(router, http.MethodPost, "/api/v1/documents/pdf", &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery_MissingQuestion(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/query", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery_InvalidTopK(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/query?q=hello&top_k=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/query?q=hello&top_k=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery_NoResults(t *testing.T) {
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{answer: "unused"}, &stubStore{}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/query?q=anything", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.AnswerResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No relevant information found.", resp.Answer)
	assert.Empty(t, resp.ChunksUsed)
	assert.Contains(t, w.Body.String(), `"chunks_used":[]`, "chunks_used must serialize as an empty array, not null")
}

func TestQuery_WithResults(t *testing.T) {
	store := &stubStore{searchRes: []schema.RetrievedChunk{
		{ChunkIndex: 2, Text: "relevant passage", Score: 0.91234},
	}}
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{answer: "because reasons"}, store, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/query?q=why", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.AnswerResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "because reasons", resp.Answer)
	require.Len(t, resp.ChunksUsed, 1)
	assert.Equal(t, 2, resp.ChunksUsed[0].ChunkIndex)
	assert.Equal(t, 0.912, resp.ChunksUsed[0].Score)
	assert.True(t, strings.HasSuffix(resp.ChunksUsed[0].Preview, "..."))
}

func TestQuery_StoreFailureIsBadGateway(t *testing.T) {
	store := &stubStore{searchErr: errors.New("connection refused")}
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, store, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/query?q=why", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimiter.NewKeyedLimiter(0.0001, 1)
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, limiter)

	w := doRequest(router, http.MethodGet, "/api/v1/query?q=first", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/query?q=second", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthEndpointBypassesRateLimit(t *testing.T) {
	limiter := ratelimiter.NewKeyedLimiter(0.0001, 1)
	router := newTestRouter(t, &stubEmbedder{}, &stubGenerator{}, &stubStore{}, limiter)

	for i := 0; i < 3; i++ {
		w := doRequest(router, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
