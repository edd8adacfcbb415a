// Package config defines the format-agnostic console definition model,
// the Loader interface that produces it, and Apply, which turns a model into
// registry variables and actions.
//
// The HCL implementation of Loader lives in hcl_adapter.
package config
