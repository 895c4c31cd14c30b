// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/stratumbbs/stratum/pkg/errutil"
)

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("FLOOR_RANGE_INVALID").Errorf("bad range")
	errutil.AssertErrorCode(t, err, "FLOOR_RANGE_INVALID")
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.Code("POST_NOT_FOUND").
		With("post_id", int64(3)).
		Errorf("no such post")
	errutil.AssertErrorContext(t, err, "post_id", int64(3))
}
