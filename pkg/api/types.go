package api

import (
	"time"
)

// RouteResponse is the answer to a shortest-path request.
type RouteResponse struct {
	Found         bool    `json:"found"`
	Path          []int64 `json:"path,omitempty"`
	Cost          float64 `json:"cost"`
	NodesExpanded int     `json:"nodesExpanded"`
	Profile       string  `json:"profile"`
	At            string  `json:"at"`
}

// DiagnosticResponse is one lint finding for a conditional tag.
type DiagnosticResponse struct {
	Code     int    `json:"code"`
	Severity string `json:"severity"`
	TagKey   string `json:"tagKey"`
	Message  string `json:"message"`
}

// ValidateResponse is the answer to a tag validation request.
type ValidateResponse struct {
	Valid       bool                 `json:"valid"`
	Message     string               `json:"message"`
	Suggestion  string               `json:"suggestion,omitempty"`
	Diagnostics []DiagnosticResponse `json:"diagnostics,omitempty"`
}

// AffectedEdgeResponse describes one edge restricted at the queried
// instant.
type AffectedEdgeResponse struct {
	WayID        int64    `json:"wayId"`
	From         int64    `json:"from"`
	To           int64    `json:"to"`
	Restrictions []string `json:"restrictions"`
}

// AffectedResponse is the answer to an affected-edges request.
type AffectedResponse struct {
	Count   int                    `json:"count"`
	Profile string                 `json:"profile"`
	At      string                 `json:"at"`
	Edges   []AffectedEdgeResponse `json:"edges"`
}

// HealthResponse reports server liveness and graph size.
type HealthResponse struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
	Nodes         int       `json:"nodes"`
	Edges         int       `json:"edges"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
