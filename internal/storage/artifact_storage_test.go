package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestValidatePDF(t *testing.T) {
	assert.NoError(t, ValidatePDF(samplePDF))
	assert.ErrorIs(t, ValidatePDF(nil), ErrNotPDF)
	assert.ErrorIs(t, ValidatePDF([]byte("<html></html>")), ErrNotPDF)
	assert.ErrorIs(t, ValidatePDF([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}), ErrNotPDF)
}

func TestCleanObjectPath(t *testing.T) {
	p, err := cleanObjectPath("/org/proposal/v1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "org/proposal/v1.pdf", p)

	_, err = cleanObjectPath("org/../../etc/passwd")
	assert.Error(t, err)

	_, err = cleanObjectPath("  ")
	assert.Error(t, err)
}

func TestNewArtifactStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewArtifactStorage(Options{Bucket: "proposals"})
	assert.Error(t, err)
}

type recordedPut struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func TestStore_UploadsPDFAndPresigns(t *testing.T) {
	var (
		mu  sync.Mutex
		got []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recordedPut{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	endpoint := strings.TrimPrefix(srv.URL, "http://")
	store, err := NewArtifactStorage(Options{
		Endpoint:     endpoint,
		AccessKey:    "access",
		SecretKey:    "secret",
		Bucket:       "proposals",
		Region:       "us-east-1",
		PresignedTTL: 10 * time.Minute,
	})
	require.NoError(t, err)

	loc, err := store.Store(context.Background(), "org-1/prop-1/v2.pdf", samplePDF)
	require.NoError(t, err)
	assert.Equal(t, "proposals", loc.Bucket)
	assert.Equal(t, "org-1/prop-1/v2.pdf", loc.Path)

	presigned, err := url.Parse(loc.URL)
	require.NoError(t, err)
	assert.Equal(t, "/proposals/org-1/prop-1/v2.pdf", presigned.Path)
	assert.NotEmpty(t, presigned.Query().Get("X-Amz-Signature"))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/proposals/org-1/prop-1/v2.pdf", last.path)
	assert.Equal(t, "application/pdf", last.contentType)
	assert.Contains(t, string(last.body), "%PDF-1.4")
}

func TestStore_RejectsNonPDFBeforeUpload(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	store, err := NewArtifactStorage(Options{
		Endpoint: strings.TrimPrefix(srv.URL, "http://"),
		Bucket:   "proposals",
		Region:   "us-east-1",
	})
	require.NoError(t, err)

	_, err = store.Store(context.Background(), "a/b.pdf", []byte("not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Zero(t, calls)
}
