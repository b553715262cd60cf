// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

/*
Package main is the entry point for the recosys server.

The server keeps per-profile click statistics for the Hirstart news portal
and picks one article per page view for the profile to read next.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("recosys")
	├── DataSupervisor ("data-layer")
	│   └── Event relay (bus to WebSocket clients)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog, level and format from configuration
 3. Storage: memory, badger, redis or sqlite profile store
 4. Engines: click tracker, seen registry, recommendation engine, page scanner
 5. Event bus: Watermill over an in-process channel or NATS
 6. WebSocket hub
 7. Supervisor tree and HTTP server

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, then the bus and the store are closed.

# Configuration Reload

When a config file is in use, edits to it change the log level without a
restart. Other settings need a restart.

# Example Usage

	export STORAGE_BACKEND=badger
	export BADGER_PATH=/data/recosys
	export CORS_ORIGINS=https://www.hirstart.hu
	./recosys-server
*/
package main
