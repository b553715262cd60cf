// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

/*
Package supervisor runs the long-lived parts of the server under a
thejerf/suture/v4 tree.

The tree has three layers below the root:

	recosys
	├── data-layer       event relay (bus → websocket hub)
	├── messaging-layer  websocket hub
	└── api-layer        HTTP server

A service that returns an error is restarted with backoff inside its own
layer; the other layers keep running. Supervisor events are logged through
sutureslog into the zerolog-backed slog handler from internal/logging.
*/
package supervisor
