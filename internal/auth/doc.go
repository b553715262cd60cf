// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package auth issues and checks anonymous profile tokens and derives the
// storage key a profile's state is kept under.
//
// A profile ID is minted once per browser install. When token checking is
// enabled the install also receives a signed HS256 token whose subject is
// the profile ID; every profile route then requires that token, so one
// install cannot read or reset another's statistics.
//
// Storage keys are a keyed BLAKE2b-256 hash of the profile ID, so backends
// never hold the raw ID.
package auth
