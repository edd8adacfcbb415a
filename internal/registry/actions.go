package registry

import (
	"context"
	"fmt"
)

// ActionFunc is the Go function run when a console action is triggered.
type ActionFunc func(ctx context.Context) error

// Action is a named, triggerable console command.
type Action struct {
	ID          int
	Name        string
	Description string
	Run         ActionFunc
}

// RegisterAction adds an action and returns it. It panics if an action with
// the same name is already registered.
func (r *Registry) RegisterAction(name string, fn ActionFunc) *Action {
	return r.RegisterActionWithDescription(name, "", fn)
}

// RegisterActionWithDescription is RegisterAction with a help text.
func (r *Registry) RegisterActionWithDescription(name, description string, fn ActionFunc) *Action {
	if _, exists := r.actionsByName[name]; exists {
		panic(fmt.Sprintf("action with name '%s' already registered", name))
	}
	if fn == nil {
		panic(fmt.Sprintf("action '%s' registered without a function", name))
	}
	a := &Action{ID: r.nextID(), Name: name, Description: description, Run: fn}
	r.actions = append(r.actions, a)
	r.actionsByID[a.ID] = a
	r.actionsByName[a.Name] = a
	r.logger.Debug("Registering action.", "id", a.ID, "name", name)
	if r.delegate != nil {
		r.delegate.OnActionRegistered(a)
	}
	return a
}

// UnregisterAction removes the action with the given id. It reports whether
// an action was removed.
func (r *Registry) UnregisterAction(id int) bool {
	a, ok := r.actionsByID[id]
	if !ok {
		return false
	}
	r.removeAction(a)
	return true
}

// UnregisterActionByName removes the action with the given name.
func (r *Registry) UnregisterActionByName(name string) bool {
	a, ok := r.actionsByName[name]
	if !ok {
		return false
	}
	r.removeAction(a)
	return true
}

func (r *Registry) removeAction(a *Action) {
	delete(r.actionsByID, a.ID)
	delete(r.actionsByName, a.Name)
	for i, x := range r.actions {
		if x == a {
			r.actions = append(r.actions[:i], r.actions[i+1:]...)
			break
		}
	}
	r.logger.Debug("Unregistering action.", "id", a.ID, "name", a.Name)
	if r.delegate != nil {
		r.delegate.OnActionUnregistered(a)
	}
}

// FindAction returns the action with the given id.
func (r *Registry) FindAction(id int) (*Action, bool) {
	a, ok := r.actionsByID[id]
	return a, ok
}

// FindActionByName returns the action with the given name.
func (r *Registry) FindActionByName(name string) (*Action, bool) {
	a, ok := r.actionsByName[name]
	return a, ok
}

// Actions returns all actions in registration order. The slice is a copy.
func (r *Registry) Actions() []*Action {
	out := make([]*Action, len(r.actions))
	copy(out, r.actions)
	return out
}
