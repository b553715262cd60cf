// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package models

import (
	"time"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status field values:
//   - "success": see Data (Data may be null, e.g. when no article qualifies
//     for a recommendation)
//   - "error": see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"site": "index.hu", "item_id": "4242", "score": 6},
//	  "metadata": {"timestamp": "2026-05-02T09:15:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "site is required"},
//	  "metadata": {"timestamp": "2026-05-02T09:15:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error payload.
//
// Error codes used by the API:
//   - VALIDATION_ERROR: invalid request body or parameters
//   - PERSISTENCE_ERROR: the profile store could not be read or written;
//     the operation was abandoned without changing state
//   - FETCH_ERROR: the portal page could not be retrieved
//   - AUTHENTICATION_ERROR: missing or invalid profile token
//   - NOT_FOUND: unknown route or resource
//   - METHOD_NOT_ALLOWED
//   - INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
