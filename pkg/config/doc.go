// Package config loads the external-layer inputs the core needs — workload
// shape, mapping, arch specs, and an initial layout — from one TOML
// document (spec §6's "Configuration entry format", reproduced here for
// contract fidelity rather than invented independently).
//
// Load parses the document into the core's own types
// (workload.Context, mapping.LoopNest, archspec.List, layout.Layout); no
// core package imports pkg/config, keeping the dependency one-directional.
package config
