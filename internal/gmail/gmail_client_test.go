package gmail

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"email-agent/internal/logger"
)

func fakeGmail(t *testing.T) *httptest.Server {
	t.Helper()
	plain := base64.URLEncoding.EncodeToString([]byte("Please review the contract."))
	html := base64.RawURLEncoding.EncodeToString([]byte("<p>Weekly news</p>"))

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"messages":[{"id":"m1"},{"id":"m2"},{"id":"gone"}]}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"m1","snippet":"snip","internalDate":"1700000000000","payload":{
			"mimeType":"multipart/alternative",
			"headers":[{"name":"From","value":"legal@example.com"},{"name":"To","value":"me@example.com"},{"name":"Subject","value":"Contract"}],
			"parts":[{"mimeType":"text/html","body":{"data":"`+html+`"}},{"mimeType":"text/plain","body":{"data":"`+plain+`"}}]}}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"m2","snippet":"news snippet","internalDate":"1700000060000","payload":{
			"mimeType":"text/html","headers":[{"name":"From","value":"news@example.com"}],
			"body":{"data":"`+html+`"}}}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestSourceFetch(t *testing.T) {
	// Setup
	srv := fakeGmail(t)
	defer srv.Close()
	source, err := NewSource(context.Background(), "token", 5, logger.NewWithWriter(io.Discard),
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	// Execute
	emails, err := source.Fetch(context.Background())

	// Verify
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "legal@example.com", emails[0].Sender)
	assert.Equal(t, "me@example.com", emails[0].Recipients)
	assert.Equal(t, "Contract", emails[0].Subject)
	assert.Equal(t, "Please review the contract.", emails[0].Body)
	assert.Equal(t, int64(1700000000), emails[0].Timestamp.Unix())

	assert.Equal(t, "news snippet", emails[1].Subject)
	assert.Equal(t, "<p>Weekly news</p>", emails[1].Body)
}

func TestNewSourceRequiresToken(t *testing.T) {
	_, err := NewSource(context.Background(), "", 5, logger.NewWithWriter(io.Discard))

	assert.Error(t, err)
}
