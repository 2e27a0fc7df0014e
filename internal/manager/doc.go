// Package manager provides the model lifecycle state machine and the
// orchestration of setup and generation on top of three capabilities. It is
// structured into small files by concern:
//
//   - types.go: Status, the legal-transition table, the Model entity, Snapshot.
//   - capabilities.go: Repository, Downloader and Loader interfaces.
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - outcome.go: Outcome/Failure result types returned by every use case.
//   - errors.go: error types and helpers (IsIllegalTransition, IsPanic).
//   - setup.go: SetupModel and the download/load transitions.
//   - generate.go: GenerateText and request options.
//   - status_report.go: ModelStatus/Snapshot reporting helpers.
//   - events.go, eventpub_memory.go: lifecycle events and publishers.
//   - metrics.go: Prometheus collectors.
//
// Use cases never return Go errors or panic for domain failures; callers
// inspect Outcome.Failure instead. Transitions are applied only by the
// Manager and each one is saved to the repository before the next step.
package manager
