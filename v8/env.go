// Package v8 implements the host capability interfaces over an embedded
// v8go context. An Env wraps one context for one invocation; values handed
// out by it are only valid while that invocation's context is alive.
package v8

import (
	"fmt"

	"github.com/modenv/modenv/host"
	"rogchap.com/v8go"
)

// Env is a per-invocation handle around a v8go context. fileURL is the
// file: URL the embedder reports for the native module this env belongs
// to; bare V8 has no module-file notion of its own.
type Env struct {
	ctx     *v8go.Context
	fileURL string
}

var _ host.Env = (*Env)(nil)

// New wraps ctx for one invocation of the native module at fileURL.
func New(ctx *v8go.Context, fileURL string) *Env {
	return &Env{ctx: ctx, fileURL: fileURL}
}

// Context returns the underlying v8go context.
func (env *Env) Context() *v8go.Context {
	return env.ctx
}

// ModuleFileName reports the module's file: URL.
func (env *Env) ModuleFileName() (string, error) {
	if env.fileURL == "" {
		return "", fmt.Errorf("env has no module file URL")
	}
	return env.fileURL, nil
}

// Global returns the context's global object.
func (env *Env) Global() (host.Object, error) {
	global := env.ctx.Global()
	return &Object{Value: Value{val: global.Value, env: env}, obj: global}, nil
}

// NewRef pins a value past this invocation. The value stays alive as long
// as the isolate does; binding the ref against an env of another isolate
// is rejected.
func (env *Env) NewRef(v host.Value) (host.Ref, error) {
	vv, ok := v.(v8valuer)
	if !ok {
		return nil, fmt.Errorf("value does not belong to a v8 env")
	}
	return &Ref{val: vv.v8value(), iso: env.ctx.Isolate()}, nil
}

// Ref is a persistent reference to a value of one isolate.
type Ref struct {
	val *v8go.Value
	iso *v8go.Isolate
}

var _ host.Ref = (*Ref)(nil)

// Bind scopes the referenced value to env's invocation.
func (r *Ref) Bind(e host.Env) (host.Value, error) {
	env, ok := e.(*Env)
	if !ok {
		return nil, fmt.Errorf("env is not a v8 env")
	}
	if env.ctx.Isolate() != r.iso {
		return nil, fmt.Errorf("ref belongs to another isolate")
	}
	return &Value{val: r.val, env: env}, nil
}
