// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// KeyDeriver maps profile IDs to storage keys.
type KeyDeriver struct {
	key []byte
}

// NewKeyDeriver creates a KeyDeriver keyed with salt. Salts longer than the
// 64-byte BLAKE2b key limit are hashed down first; an empty salt gives an
// unkeyed hash.
func NewKeyDeriver(salt string) *KeyDeriver {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &KeyDeriver{key: key}
}

// Derive returns the hex keyed BLAKE2b-256 of profile.
func (d *KeyDeriver) Derive(profile string) string {
	h, err := blake2b.New256(d.key)
	if err != nil {
		// Unreachable: the key never exceeds blake2b.Size.
		panic(err)
	}
	h.Write([]byte(profile))
	return hex.EncodeToString(h.Sum(nil))
}
