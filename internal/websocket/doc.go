// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

/*
Package websocket pushes live profile updates to open info panels.

A [Hub] owns every connection. Each [Client] is bound to one profile at
upgrade time, and [Hub.BroadcastToProfile] delivers only to the clients of
that profile, so one browser never sees another profile's clicks.

Message flow:

	events.Relay ──BroadcastToProfile──▶ Hub ──send chan──▶ Client.writePump ──▶ browser
	                                      ▲
	browser ──ping──▶ Client.readPump ────┘ (Unregister on close)

Frames are JSON objects of the form {"type": "...", "data": ...}. The
hub forwards profile event types unchanged and adds stats_update and
recommendation_refresh frames produced by the API layer.

The hub runs under suture via [Hub.RunWithContext]; canceling the context
closes every client.
*/
package websocket
