// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package middleware provides the HTTP middleware shared by all recosys
// routes: request ID propagation and Prometheus instrumentation.
package middleware
