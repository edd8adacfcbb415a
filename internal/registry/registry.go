package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/variable"
)

// Module is the interface that console modules implement to contribute
// variables and actions.
type Module interface {
	Register(r *Registry)
}

// Delegate receives registry events. All calls happen on the owner goroutine.
type Delegate interface {
	OnVariableRegistered(v *variable.Variable)
	OnVariableUpdated(v *variable.Variable)
	OnActionRegistered(a *Action)
	OnActionUnregistered(a *Action)
}

// Registry holds the variables and actions of a single console instance.
type Registry struct {
	logger *slog.Logger
	lastID int

	vars       []*variable.Variable
	varsByID   map[int]*variable.Variable
	varsByName map[string]*variable.Variable

	actions       []*Action
	actionsByID   map[int]*Action
	actionsByName map[string]*Action

	delegate Delegate
}

// New creates an empty registry. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        ctxlog.OrDefault(logger).With("component", "registry"),
		varsByID:      make(map[int]*variable.Variable),
		varsByName:    make(map[string]*variable.Variable),
		actionsByID:   make(map[int]*Action),
		actionsByName: make(map[string]*Action),
	}
}

// Use registers every module with r.
func (r *Registry) Use(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
	r.logger.Debug("Modules registered.", "count", len(mods))
}

// SetDelegate installs the event delegate. Passing nil detaches it.
func (r *Registry) SetDelegate(d Delegate) {
	r.delegate = d
}

func (r *Registry) nextID() int {
	r.lastID++
	return r.lastID
}

// NewVariable constructs and registers a non-enum variable. Unlike the typed
// helpers it returns errors instead of panicking, for definitions that come
// from user-supplied configuration.
func (r *Registry) NewVariable(name string, t variable.Type, def string, opts ...variable.Option) (*variable.Variable, error) {
	if _, exists := r.varsByName[name]; exists {
		return nil, fmt.Errorf("variable with name '%s' already registered", name)
	}
	v, err := variable.New(r.nextID(), name, t, def, r.withLogger(opts)...)
	if err != nil {
		return nil, err
	}
	r.add(v)
	return v, nil
}

// NewEnumVariable constructs and registers an enum variable declared by member names.
func (r *Registry) NewEnumVariable(name string, members []string, def string, opts ...variable.Option) (*variable.Variable, error) {
	if _, exists := r.varsByName[name]; exists {
		return nil, fmt.Errorf("variable with name '%s' already registered", name)
	}
	v, err := variable.NewEnumNamed(r.nextID(), name, members, def, r.withLogger(opts)...)
	if err != nil {
		return nil, err
	}
	r.add(v)
	return v, nil
}

// AddBool registers a boolean variable. It panics on invalid arguments.
func (r *Registry) AddBool(name string, def bool, opts ...variable.Option) *variable.Variable {
	r.mustBeNew(name)
	return r.mustAdd(variable.NewBool(r.nextID(), name, def, r.withLogger(opts)...))
}

// AddInt registers an integer variable. It panics on invalid arguments.
func (r *Registry) AddInt(name string, def int, opts ...variable.Option) *variable.Variable {
	r.mustBeNew(name)
	return r.mustAdd(variable.NewInt(r.nextID(), name, def, r.withLogger(opts)...))
}

// AddFloat registers a float variable. It panics on invalid arguments.
func (r *Registry) AddFloat(name string, def float64, opts ...variable.Option) *variable.Variable {
	r.mustBeNew(name)
	return r.mustAdd(variable.NewFloat(r.nextID(), name, def, r.withLogger(opts)...))
}

// AddString registers a string variable. It panics on invalid arguments.
func (r *Registry) AddString(name string, def string, opts ...variable.Option) *variable.Variable {
	r.mustBeNew(name)
	return r.mustAdd(variable.NewString(r.nextID(), name, def, r.withLogger(opts)...))
}

// AddEnum registers a variable over a Go enumeration. It panics with the
// construction error if E is not an enumeration.
func AddEnum[E comparable](r *Registry, name string, def E, opts ...variable.Option) *variable.EnumVariable[E] {
	r.mustBeNew(name)
	e, err := variable.NewEnum(r.nextID(), name, def, r.withLogger(opts)...)
	if err != nil {
		panic(err)
	}
	r.add(e.Variable)
	return e
}

func (r *Registry) withLogger(opts []variable.Option) []variable.Option {
	return append([]variable.Option{variable.WithLogger(r.logger)}, opts...)
}

func (r *Registry) mustBeNew(name string) {
	if _, exists := r.varsByName[name]; exists {
		panic(fmt.Sprintf("variable with name '%s' already registered", name))
	}
}

func (r *Registry) mustAdd(v *variable.Variable, err error) *variable.Variable {
	if err != nil {
		panic(err)
	}
	r.add(v)
	return v
}

func (r *Registry) add(v *variable.Variable) {
	r.vars = append(r.vars, v)
	r.varsByID[v.ID()] = v
	r.varsByName[v.Name()] = v
	v.Notifier().Subscribe(r)
	r.logger.Debug("Registering variable.", "id", v.ID(), "name", v.Name(), "type", v.Type().String())
	if r.delegate != nil {
		r.delegate.OnVariableRegistered(v)
	}
}

// VariableChanged forwards variable updates to the delegate.
func (r *Registry) VariableChanged(v *variable.Variable) error {
	if r.delegate != nil {
		r.delegate.OnVariableUpdated(v)
	}
	return nil
}

// FindVariable returns the variable with the given id.
func (r *Registry) FindVariable(id int) (*variable.Variable, bool) {
	v, ok := r.varsByID[id]
	return v, ok
}

// FindVariableByName returns the variable with the given name.
func (r *Registry) FindVariableByName(name string) (*variable.Variable, bool) {
	v, ok := r.varsByName[name]
	return v, ok
}

// Variables returns all variables in registration order. The slice is a copy.
func (r *Registry) Variables() []*variable.Variable {
	out := make([]*variable.Variable, len(r.vars))
	copy(out, r.vars)
	return out
}

// Len returns the number of registered variables.
func (r *Registry) Len() int {
	return len(r.vars)
}
