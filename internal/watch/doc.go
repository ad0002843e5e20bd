// Package watch re-runs a batch whenever its definition or instance files change.
//
// A Watcher observes the directories that hold the selected definitions and
// their instances. Bursts of filesystem events are collapsed into a single
// trigger after a quiet period, and triggers are delivered one at a time so a
// new run never overlaps the previous one.
package watch
