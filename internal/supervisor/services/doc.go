// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package services adapts server components to the suture.Service
// contract: Serve(ctx) blocks until ctx ends and returns an error the
// supervisor can act on, and String names the service in logs.
package services
