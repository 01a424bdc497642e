// Package script runs the tengo scripts that drive the locomotion state
// graph and the scripted input scenarios.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/locomotion/prefabs"
)

var ErrNoTransition = errors.New("script: no such transition target")

// runtime is one compiled script plus the mutable state map it keeps between
// runs. Scripts are appended with a dispatch snippet that reads the __phase
// global and calls the matching script function.
type runtime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
}

func loadRuntime(path, dispatch string, globals map[string]any) (*runtime, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return compileRuntime(path, src, dispatch, globals)
}

func compileRuntime(path string, src []byte, dispatch string, globals map[string]any) (*runtime, error) {
	full := string(src) + "\n" + dispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	for name, v := range globals {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("script: %s: global %s: %w", path, name, err)
		}
	}

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}

	rt := &runtime{
		path:      path,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}

	// Run once with no phase so top-level globals such as initial_state are
	// evaluated.
	if err := rt.run("noop", emptyEngine(), nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func emptyEngine() *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
}

func (rt *runtime) run(phase string, engine *tengo.ImmutableMap, vars map[string]any) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("script: nil runtime")
	}
	if engine == nil {
		engine = emptyEngine()
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	for name, v := range vars {
		if err := rt.compiled.Set(name, v); err != nil {
			return err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s %s: %w", rt.path, phase, err)
	}
	return nil
}

// global returns a top-level script variable, or nil when it is undefined.
func (rt *runtime) global(name string) any {
	if rt == nil || rt.compiled == nil || !rt.compiled.IsDefined(name) {
		return nil
	}
	return objectToAny(rt.compiled.Get(name).Object())
}

// State returns a copy of the script's persistent state map.
func (rt *runtime) State() map[string]any {
	if rt == nil {
		return nil
	}
	out, _ := objectToAny(rt.stateData).(map[string]any)
	return out
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

// immutable converts a Go map into a read-only tengo map.
func immutable(values map[string]any) (*tengo.ImmutableMap, error) {
	out := make(map[string]tengo.Object, len(values))
	for k, v := range values {
		obj, err := tengo.FromInterface(v)
		if err != nil {
			return nil, fmt.Errorf("script: value %s: %w", k, err)
		}
		out[k] = obj
	}
	return &tengo.ImmutableMap{Value: out}, nil
}
