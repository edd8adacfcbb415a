// Package hcl_adapter implements config.Loader for HCL console definition
// files.
//
// Every .hcl file found under the given paths is decoded with gohcl and
// merged into one config.Model. At most one `console` and one `host` block
// may appear across all files; variable and action names must be unique.
package hcl_adapter
