package fetch

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"procentric-epg/consts"
)

// StatusError reports a non-OK upstream response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Status)
}

var httpClient = &http.Client{
	Timeout: 20 * time.Second,
}

func do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", consts.UA)
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: req.URL.String(), Code: res.StatusCode, Status: res.Status}
	}
	return io.ReadAll(res.Body)
}

// Get retrieves url and returns the raw response body.
func Get(url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(req)
}

// Post sends body to url and returns the raw response body.
func Post(url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return do(req)
}
