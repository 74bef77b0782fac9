// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin key check and jury code generation.

# Admin Key

Admin routes carry the shared secret in the X-Admin-Key header:

	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey); err != nil {
		// 401
	}

The comparison runs in constant time.

# Jury Codes

Each jury member gets a short access code:

	code, err := auth.GenerateJuryCode() // e.g. "7QX2"

Codes are JuryCodeLength characters from A-Z and 0-9, drawn from
crypto/rand. The store enforces uniqueness; callers retry on collision.
*/
package auth
