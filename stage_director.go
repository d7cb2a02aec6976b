package rangeseek

// The stage director is split across several files:
//
// - stage_types.go: StageModel, StageDirector and result types
// - stage_director_methods.go: lifecycle, configuration and accessors
// - stage_interactions.go: gestures, assertions and message dispatch
// - stage_error_handling.go: panic recovery and error snapshots
