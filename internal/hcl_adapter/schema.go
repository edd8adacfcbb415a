package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Console   []*ConsoleBlock  `hcl:"console,block"`
	Host      []*HostBlock     `hcl:"host,block"`
	Variables []*VariableBlock `hcl:"variable,block"`
	Actions   []*ActionBlock   `hcl:"action,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// ConsoleBlock is the `console` block.
type ConsoleBlock struct {
	SavePath        string `hcl:"save_path,optional"`
	TickInterval    string `hcl:"tick_interval,optional"`
	LogForwardLevel string `hcl:"log_forward_level,optional"`
}

// HostBlock is the `host` block.
type HostBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// VariableBlock is a `variable "<name>"` block.
type VariableBlock struct {
	Name        string         `hcl:"name,label"`
	Type        string         `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Min         hcl.Expression `hcl:"min,optional"`
	Max         hcl.Expression `hcl:"max,optional"`
	Flags       []string       `hcl:"flags,optional"`
	Values      []string       `hcl:"values,optional"`
}

// ActionBlock is an `action "<name>"` block.
type ActionBlock struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Resets      []string `hcl:"resets,optional"`
}
