package modenv

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/modenv/modenv/host"
	"github.com/yaoapp/kun/log"
)

// Memo tables, keyed by execution-context identity. Entries are created
// lazily, never evicted and never mutated; they are reclaimed at process
// exit. Access is mutex-guarded because Go gives no single-threaded
// scheduling guarantee. Locks are never held across host calls, so the
// nested esmHelpersFor -> requireFor computation cannot deadlock.
var (
	requireMu   sync.Mutex
	requireRefs = map[identity]host.Ref{}

	esmMu   sync.Mutex
	esmRefs = map[identity]host.Ref{}

	resolveMemo *lru.ARCCache
)

const resolveMemoSize = 1024

func init() {
	cache, err := lru.NewARC(resolveMemoSize)
	if err != nil {
		panic(err)
	}
	resolveMemo = cache
}

// resolveKey keys the bounded memo of specifier resolution results.
type resolveKey struct {
	id        identity
	kind      string
	specifier string
}

// requireFor returns the persistent reference to the context's require
// function, computing it on first use. The computation walks
// global.process.getBuiltinModule("node:module").createRequire(filename)
// and pins the result past this invocation.
func requireFor(env host.Env) (host.Ref, error) {
	id := identityOf(env)

	requireMu.Lock()
	ref, has := requireRefs[id]
	requireMu.Unlock()
	if has {
		return ref, nil
	}

	global, err := env.Global()
	if err != nil {
		return nil, fmt.Errorf("require for %s: global: %s", id, err)
	}

	process, err := getObject(global, "process")
	if err != nil {
		return nil, fmt.Errorf("require for %s: process: %s", id, err)
	}

	getBuiltin, err := getFunction(process, "getBuiltinModule")
	if err != nil {
		return nil, fmt.Errorf("require for %s: getBuiltinModule: %s", id, err)
	}

	builtin, err := getBuiltin.Call("node:module")
	if err != nil {
		return nil, fmt.Errorf("require for %s: getBuiltinModule(node:module): %s", id, err)
	}

	nodeModule, err := builtin.AsObject()
	if err != nil {
		return nil, fmt.Errorf("require for %s: node:module: %s", id, err)
	}

	createRequire, err := getFunction(nodeModule, "createRequire")
	if err != nil {
		return nil, fmt.Errorf("require for %s: createRequire: %s", id, err)
	}

	filename, err := Filename(env)
	if err != nil {
		return nil, fmt.Errorf("require for %s: filename: %s", id, err)
	}

	require, err := createRequire.Call(filename)
	if err != nil {
		return nil, fmt.Errorf("require for %s: createRequire(%s): %s", id, filename, err)
	}

	ref, err = env.NewRef(require)
	if err != nil {
		return nil, fmt.Errorf("require for %s: ref: %s", id, err)
	}

	requireMu.Lock()
	requireRefs[id] = ref
	requireMu.Unlock()

	log.Trace("[modenv] require handle cached for %s", id)
	return ref, nil
}

// esmHelpersFor returns the persistent reference to the context's ESM
// helpers object, computing it on first use: materialize the helper script
// next to the native module, then require it through the cached require
// handle. Requiring keeps the helpers a single module instance per context
// via the host's own require cache.
func esmHelpersFor(env host.Env) (host.Ref, error) {
	id := identityOf(env)

	esmMu.Lock()
	ref, has := esmRefs[id]
	esmMu.Unlock()
	if has {
		return ref, nil
	}

	filename, err := Filename(env)
	if err != nil {
		return nil, fmt.Errorf("esm helpers for %s: filename: %s", id, err)
	}

	scriptPath, err := helperScriptPath(filename)
	if err != nil {
		return nil, fmt.Errorf("esm helpers for %s: %s", id, err)
	}

	require, err := boundRequire(env)
	if err != nil {
		return nil, fmt.Errorf("esm helpers for %s: %s", id, err)
	}

	helpers, err := require.Call(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("esm helpers for %s: require(%s): %s", id, scriptPath, err)
	}

	ref, err = env.NewRef(helpers)
	if err != nil {
		return nil, fmt.Errorf("esm helpers for %s: ref: %s", id, err)
	}

	esmMu.Lock()
	esmRefs[id] = ref
	esmMu.Unlock()

	log.Trace("[modenv] esm helpers cached for %s", id)
	return ref, nil
}

// boundRequire rebinds the cached require handle to the current invocation.
func boundRequire(env host.Env) (host.Function, error) {
	ref, err := requireFor(env)
	if err != nil {
		return nil, err
	}

	value, err := ref.Bind(env)
	if err != nil {
		return nil, fmt.Errorf("bind require: %s", err)
	}

	return value.AsFunction()
}

// boundHelpers rebinds the cached ESM helpers object to the current
// invocation.
func boundHelpers(env host.Env) (host.Object, error) {
	ref, err := esmHelpersFor(env)
	if err != nil {
		return nil, err
	}

	value, err := ref.Bind(env)
	if err != nil {
		return nil, fmt.Errorf("bind esm helpers: %s", err)
	}

	return value.AsObject()
}

func getObject(obj host.Object, name string) (host.Object, error) {
	value, err := obj.Get(name)
	if err != nil {
		return nil, err
	}
	return value.AsObject()
}

func getFunction(obj host.Object, name string) (host.Function, error) {
	value, err := obj.Get(name)
	if err != nil {
		return nil, err
	}
	return value.AsFunction()
}
