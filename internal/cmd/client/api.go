package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/liinahamari/Loggy/internal/entry"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// apiError is the body of a non-2xx response.
type apiError struct {
	Status  int
	Message string `json:"error"`
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// pageResp mirrors GET /v1/logs.
type pageResp struct {
	Status  string        `json:"status"`
	Page    int           `json:"page"`
	Size    int           `json:"size"`
	Entries []entry.Entry `json:"entries"`
}

// call sends body (JSON-encoded when non-nil) and returns the response if
// the status is 2xx. The caller closes the body.
func call(method, target string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return nil, apiErr
	}
	return resp, nil
}

// filterFlags registers the query filter flags shared by page and export.
func filterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("errors", false, "Only error entries")
	cmd.Flags().Bool("no-lifecycle", false, "Exclude lifecycle entries")
	cmd.Flags().Bool("non-main", false, "Exclude entries from the main thread")
	cmd.Flags().String("expr", "", "CEL filter expression, e.g. thread == \"sync\"")
}

// filterQuery turns the filter flags into query parameters.
func filterQuery(cmd *cobra.Command) url.Values {
	q := url.Values{}
	for flag, param := range map[string]string{"errors": "errors", "no-lifecycle": "no_lifecycle", "non-main": "non_main"} {
		if v, _ := cmd.Flags().GetBool(flag); v {
			q.Set(param, "1")
		}
	}
	if expr, _ := cmd.Flags().GetString("expr"); expr != "" {
		q.Set("expr", expr)
	}
	return q
}

func withQuery(base, path string, q url.Values) string {
	if len(q) == 0 {
		return base + path
	}
	return base + path + "?" + q.Encode()
}
