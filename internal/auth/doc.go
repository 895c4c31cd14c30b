// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package auth provides credential hashing, the in-memory session store,
// per-request identity resolution, and the account service (register/login).
package auth
