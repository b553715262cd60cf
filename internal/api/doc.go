// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

/*
Package api is the HTTP surface of the recommendation service.

Routes (all JSON unless noted):

	GET    /api/v1/health/live                      liveness
	GET    /api/v1/health/ready                     storage ping
	POST   /api/v1/profiles                         mint an anonymous profile (+ token)
	POST   /api/v1/profiles/{id}/clicks             resolve and record a click
	POST   /api/v1/profiles/{id}/seen               mark an item seen
	GET    /api/v1/profiles/{id}/seen/{item}        has the item been seen
	POST   /api/v1/profiles/{id}/recommendation     pick an article from a page
	POST   /api/v1/profiles/{id}/dismiss            mark seen and pick again
	POST   /api/v1/profiles/{id}/explain            ranked eligible candidates
	GET    /api/v1/profiles/{id}/stats              statistics summary
	GET    /api/v1/profiles/{id}/panel              info panel (text/html)
	DELETE /api/v1/profiles/{id}                    forget a profile
	GET    /api/v1/profiles/{id}/ws                 live updates (websocket)
	GET    /metrics                                 prometheus

Every response uses the models.APIResponse envelope. Persistence failures
map to 503 PERSISTENCE_ERROR and leave the profile unchanged; page fetch
failures map to 502 FETCH_ERROR.

Profile routes require a token from POST /api/v1/profiles when
security.require_token is set. Ingestion routes (clicks, seen, dismiss)
are rate limited per client IP.

After each state change the handler publishes an events.Event and, when
someone is watching the profile, pushes a fresh stats_update frame
through the websocket hub.
*/
package api
