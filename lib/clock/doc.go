// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Annex reads the wall clock in exactly one place that matters: the
// archive writer partitions archives by the year they were produced.
// Code that needs the current time accepts a [Clock] instead of calling
// time.Now directly. In production, [Real] provides the standard
// library behavior. In tests, [Fake] provides a clock that stays put
// until the test moves it with Set or Advance.
//
//	writer := &archive.Writer{Clock: clock.Real()}
//
//	fake := clock.Fake(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
//	writer := &archive.Writer{Clock: fake}
//	fake.Set(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//
// This package has no Annex-internal dependencies.
package clock
