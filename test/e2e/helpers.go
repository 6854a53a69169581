//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clearsight-ai/reportforge/internal/api/handlers"
	"github.com/clearsight-ai/reportforge/internal/generator"
	"github.com/clearsight-ai/reportforge/internal/openai"
	"github.com/clearsight-ai/reportforge/internal/retriever"
	"github.com/clearsight-ai/reportforge/internal/server"
	"github.com/clearsight-ai/reportforge/internal/service"
	"github.com/clearsight-ai/reportforge/internal/vectorindex"
)

const testAPIToken = "e2e-token"

// fakeEmbedder produces deterministic vectors so similarity is predictable:
// texts mentioning the probe keyword land on one axis, everything else on
// the other.
type fakeEmbedder struct {
	keyword string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(strings.ToLower(text), f.keyword) {
		return []float32{1, 0}, nil
	}
	return []float32{0, 1}, nil
}

// fakeCompleter replays a scripted model response for every candidate call.
type fakeCompleter struct {
	response string
	calls    []string
}

func (f *fakeCompleter) Complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req.Model)
	return f.response, nil
}

// TestEnv holds the in-process server and its fakes.
type TestEnv struct {
	Server    *httptest.Server
	Completer *fakeCompleter
	Client    *http.Client
}

// SetupEnv wires the full service graph over the ephemeral local index and
// starts an in-process HTTP server.
func SetupEnv(t *testing.T, modelResponse string) *TestEnv {
	t.Helper()

	embedder := &fakeEmbedder{keyword: "pgvector"}
	completer := &fakeCompleter{response: modelResponse}

	retr := retriever.New(embedder, func(ctx context.Context) vectorindex.Index {
		return vectorindex.NewLocalIndex()
	})
	gen := generator.New(completer)
	svc := service.NewReportService(retr, gen, nil)

	router := server.NewRouter(server.RouterConfig{
		APIToken:      testAPIToken,
		CorpusHandler: handlers.NewCorpusHandler(svc),
		ReportHandler: handlers.NewReportHandler(svc, nil),
		Store:         svc,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestEnv{
		Server:    srv,
		Completer: completer,
		Client:    srv.Client(),
	}
}

// PostJSON sends an authenticated POST with a JSON body and decodes the
// response into out.
func (e *TestEnv) PostJSON(t *testing.T, path string, body interface{}, out interface{}) int {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.Server.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testAPIToken)

	return e.do(t, req, out)
}

// GetJSON sends an authenticated GET and decodes the response into out.
func (e *TestEnv) GetJSON(t *testing.T, path string, out interface{}) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIToken)

	return e.do(t, req, out)
}

func (e *TestEnv) do(t *testing.T, req *http.Request, out interface{}) int {
	t.Helper()

	resp, err := e.Client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode response %s: %v", string(raw), err)
		}
	}

	return resp.StatusCode
}

// sampleCorpus returns a corpus whose first chapter mentions the probe
// keyword and whose second does not.
func sampleCorpus() string {
	return fmt.Sprintf("# Chapter 1\n\n%s\n\n# Chapter 2\n\n%s",
		"The pgvector extension adds vector similarity search to Postgres.",
		"Object storage keeps archived artifacts cheap and durable.")
}
