// Package testutil holds deterministic test signals and comparison helpers
// shared by the equalizer tests.
package testutil
