// Package manager owns the lifecycle of the single resident model: selecting
// it under the memory budget, loading and unloading it off the caller's
// goroutine, serializing load/switch requests, evicting on idle, and pushing
// progress and telemetry to subscribers. It is structured into small files by
// concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: Config and package defaults; New applies defaults.
//   - types.go: lifecycle states and the read-only Snapshot projection.
//   - errors.go: error types and helpers (IsBusy, IsClosed).
//   - events.go: the Listener contract and the guarded dispatch Bus.
//   - recorder.go: an in-memory Listener for tests and polling UIs.
//   - load.go: StartLoad and the background load worker.
//   - unload.go: Unload, borrow draining, weight release.
//   - switchmodel.go: SwitchModel and its busy policy.
//   - generate.go: Generate/GenerateStream gating and sentinels.
//   - idle.go: the single-shot idle eviction timer.
//   - benchmark.go: post-load throughput measurement and memory usage.
//   - settings.go: runtime tunables (device, budget, idle window).
//   - status.go: Status for the HTTP layer.
//   - metrics.go: Prometheus collectors.
//
// Concurrency contract: public API calls are safe from any goroutine. At most
// one load/switch worker exists at a time; an epoch counter fences stale
// workers out of the write-back path. Generate borrows the resident model
// under a reference count and Unload drains borrows before releasing weights,
// so an idle eviction can never pull weights out from under a running
// generation.
//
// External packages should construct the Manager with New and use public
// methods only. There are no package-level singletons; tests build isolated
// instances.
package manager
