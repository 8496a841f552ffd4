// Package modenv lets natively embedded code call back into the embedding
// runtime's module machinery: synchronous require, dynamic import,
// specifier resolution and entry-point detection. The callable handles
// these operations need are materialized once per execution context and
// rebound to each invocation before use.
package modenv

import (
	"fmt"

	"github.com/modenv/modenv/fileurl"
	"github.com/modenv/modenv/host"
)

// Filename returns the filesystem path of the current module.
func Filename(env host.Env) (string, error) {
	name, err := env.ModuleFileName()
	if err != nil {
		return "", err
	}
	return fileurl.ToPath(name)
}

// Require loads a module through the context's require function and
// returns its exports as a raw host value.
func Require(env host.Env, id string) (host.Value, error) {
	require, err := boundRequire(env)
	if err != nil {
		return nil, err
	}
	return require.Call(id)
}

// RequireAs loads a module and converts its exports to T. The type is the
// caller's assertion about what the host returns; a mismatch is reported
// as an error, the host does not verify it.
func RequireAs[T any](env host.Env, id string) (T, error) {
	var zero T

	value, err := Require(env, id)
	if err != nil {
		return zero, err
	}

	exported, err := value.Export()
	if err != nil {
		return zero, fmt.Errorf("require %q: export: %s", id, err)
	}

	typed, ok := exported.(T)
	if !ok {
		return zero, fmt.Errorf("require %q: have %T, want %T", id, exported, zero)
	}
	return typed, nil
}

// RequireResolve resolves a module specifier to its absolute form without
// loading it, via the require function's resolve property. Successful
// resolutions are memoized per context; resolution is stable within one
// execution context.
func RequireResolve(env host.Env, id string) (string, error) {
	key := resolveKey{id: identityOf(env), kind: "require", specifier: id}
	if cached, ok := resolveMemo.Get(key); ok {
		return cached.(string), nil
	}

	require, err := boundRequire(env)
	if err != nil {
		return "", err
	}

	requireObj, err := require.AsObject()
	if err != nil {
		return "", fmt.Errorf("require.resolve: %s", err)
	}

	resolve, err := getFunction(requireObj, "resolve")
	if err != nil {
		return "", fmt.Errorf("require.resolve: %s", err)
	}

	result, err := resolve.Call(id)
	if err != nil {
		return "", fmt.Errorf("require.resolve(%q): %s", id, err)
	}

	resolved := result.String()
	resolveMemo.Add(key, resolved)
	return resolved, nil
}

// Import starts a dynamic import of specifier and returns the pending
// promise of the module's exports. options may be nil. The promise settles
// on the host's event loop; failures surface there, not here.
func Import(env host.Env, specifier string, options interface{}) (host.Promise, error) {
	helpers, err := boundHelpers(env)
	if err != nil {
		return nil, err
	}

	imp, err := getFunction(helpers, "import")
	if err != nil {
		return nil, fmt.Errorf("import: %s", err)
	}

	var result host.Value
	if options == nil {
		result, err = imp.Call(specifier)
	} else {
		result, err = imp.Call(specifier, options)
	}
	if err != nil {
		return nil, fmt.Errorf("import(%q): %s", specifier, err)
	}

	return result.AsPromise()
}

// ImportMetaResolve resolves specifier the way import.meta.resolve would,
// relative to the helper script next to the native module. Successful
// resolutions are memoized per context.
func ImportMetaResolve(env host.Env, specifier string) (string, error) {
	key := resolveKey{id: identityOf(env), kind: "import", specifier: specifier}
	if cached, ok := resolveMemo.Get(key); ok {
		return cached.(string), nil
	}

	helpers, err := boundHelpers(env)
	if err != nil {
		return "", err
	}

	resolve, err := getFunction(helpers, "importMetaResolve")
	if err != nil {
		return "", fmt.Errorf("import.meta.resolve: %s", err)
	}

	result, err := resolve.Call(specifier)
	if err != nil {
		return "", fmt.Errorf("import.meta.resolve(%q): %s", specifier, err)
	}

	resolved := result.String()
	resolveMemo.Add(key, resolved)
	return resolved, nil
}

// IsMain reports whether the current module is the program's entry point,
// by comparing require.main's filename with the current module's. A host
// with no entry-point module yields false, not an error.
func IsMain(env host.Env) (bool, error) {
	require, err := boundRequire(env)
	if err != nil {
		return false, err
	}

	requireObj, err := require.AsObject()
	if err != nil {
		return false, fmt.Errorf("is main: %s", err)
	}

	main, err := requireObj.Get("main")
	if err != nil {
		return false, fmt.Errorf("is main: %s", err)
	}

	if main.IsUndefined() || main.IsNull() {
		return false, nil
	}

	mainObj, err := main.AsObject()
	if err != nil {
		return false, fmt.Errorf("is main: %s", err)
	}

	mainFile, err := mainObj.Get("filename")
	if err != nil {
		return false, fmt.Errorf("is main: %s", err)
	}

	self, err := Filename(env)
	if err != nil {
		return false, err
	}

	return mainFile.String() == self, nil
}
