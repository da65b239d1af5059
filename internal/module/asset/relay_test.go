package asset

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRelay_Put(t *testing.T) {
	t.Run("forwards body and reports upstream status", func(t *testing.T) {
		var gotMethod, gotBody, gotContentType string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			gotContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		}))
		defer upstream.Close()

		relay := NewHTTPRelay(0)
		status, err := relay.Put(context.Background(), upstream.URL, strings.NewReader("hello"), 5, "text/plain")

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "hello", gotBody)
		assert.Equal(t, "text/plain", gotContentType)
	})

	t.Run("reports rejection without error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer upstream.Close()

		relay := NewHTTPRelay(0)
		status, err := relay.Put(context.Background(), upstream.URL, strings.NewReader("hello"), 5, "")

		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("unreachable upstream is an error", func(t *testing.T) {
		relay := NewHTTPRelay(0)
		_, err := relay.Put(context.Background(), "http://127.0.0.1:1", strings.NewReader("hello"), 5, "")
		assert.Error(t, err)
	})
}
