// Package live implements the live content refresh policy shared by every
// polling view: a cancellable RefreshScheduler driven by an injectable Clock,
// the MergePolicy that reconciles a refreshed collection with the displayed one,
// and View, which binds a fetch function to both.
//
// A View performs its initial load before arming the scheduler. Background
// refresh failures are logged and never replace displayed content, and results
// that arrive after Unmount are discarded.
package live
