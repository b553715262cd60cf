// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

/*
Package events carries profile activity notifications between the request
path and live subscribers.

Every state change on a profile (a recorded click, a newly seen item, a
dismissed recommendation, a reset) is published as an [Event] on a single
topic. Two transports are supported:

  - channel: an in-process watermill GoChannel, the default for single
    instance deployments
  - nats: watermill-nats over core NATS, optionally against an embedded
    nats-server started by [NewEmbeddedServer]

The [Relay] consumes the topic and forwards each event to a [Broadcaster],
normally the websocket hub, so that open panels refresh without polling.

Publishing is best effort. A failing broker trips the bus circuit breaker
and callers log the error; profile state has already been persisted by
then and is never rolled back because of a lost notification.
*/
package events
