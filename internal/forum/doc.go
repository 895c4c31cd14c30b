// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package forum contains the discussion-forum domain: posts, floors, the
// repository abstraction over durable storage, and the content service that
// assembles views for the HTTP layer.
package forum
