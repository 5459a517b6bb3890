package controllers

import "github.com/liinahamari/Loggy/internal/entry"

// Common request/response types for HTTP controllers

// emitReq represents a request to record one entry.
type emitReq struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Thread   string `json:"thread"`
	// Label is used with priority E: the entry becomes "label: <label>\n<message>".
	Label string `json:"label"`
}

// emitResp echoes the accepted entry's identity.
type emitResp struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// logsResp is one page of entries.
type logsResp struct {
	Status  string        `json:"status"`
	Page    int           `json:"page"`
	Size    int           `json:"size"`
	Entries []entry.Entry `json:"entries"`
}
