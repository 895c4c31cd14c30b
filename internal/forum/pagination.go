// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum

import "github.com/samber/oops"

// ClampFloorRange validates a requested inclusive floor-number range and
// caps it to at most maxWindow floors. The effective start is always the
// requested start; the effective end is the requested end unless the window
// would exceed maxWindow, in which case it becomes start+maxWindow-1.
//
// Returns ErrInvalidRange when start > end.
func ClampFloorRange(start, end, maxWindow uint) (uint, uint, error) {
	if start > end {
		return 0, 0, oops.Code("FLOOR_RANGE_INVALID").
			With("start", start).
			With("end", end).
			Wrap(ErrInvalidRange)
	}
	if end-start >= maxWindow {
		end = start + maxWindow - 1
	}
	return start, end, nil
}
