package fetch

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procentric-epg/consts"
)

func TestGet(t *testing.T) {
	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	body, err := Get(srv.URL, map[string]string{"Referer": "https://xmltv.net"})
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, consts.UA, gotUA)
	assert.Equal(t, "https://xmltv.net", gotReferer)
}

func TestGetNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	body, err := Get(srv.URL, nil)
	assert.Nil(t, body)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, srv.URL, se.URL)
}

func TestPost(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := Post(srv.URL, "application/json", []byte(`{"query":"{}"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"query":"{}"}`, gotBody)
}
