package v8

import (
	"fmt"

	"github.com/modenv/modenv/host"
	"github.com/modenv/modenv/v8/bridge"
	"rogchap.com/v8go"
)

// v8valuer exposes the underlying engine value of any wrapper type.
type v8valuer interface {
	v8value() *v8go.Value
}

// Value wraps one engine value, scoped to the env's invocation.
type Value struct {
	val *v8go.Value
	env *Env
}

var _ host.Value = (*Value)(nil)

func (v *Value) v8value() *v8go.Value { return v.val }

// String returns the value coerced to a string.
func (v *Value) String() string { return v.val.String() }

// IsUndefined reports whether the value is undefined.
func (v *Value) IsUndefined() bool { return v.val.IsUndefined() }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v.val.IsNull() }

// AsObject casts the value to an object.
func (v *Value) AsObject() (host.Object, error) {
	obj, err := v.val.AsObject()
	if err != nil {
		return nil, err
	}
	return &Object{Value: Value{val: v.val, env: v.env}, obj: obj}, nil
}

// AsFunction casts the value to a function.
func (v *Value) AsFunction() (host.Function, error) {
	fn, err := v.val.AsFunction()
	if err != nil {
		return nil, err
	}
	return &Function{Value: Value{val: v.val, env: v.env}, fn: fn}, nil
}

// AsPromise casts the value to a promise.
func (v *Value) AsPromise() (host.Promise, error) {
	promise, err := v.val.AsPromise()
	if err != nil {
		return nil, err
	}
	return &Promise{Value: Value{val: v.val, env: v.env}, promise: promise}, nil
}

// Export converts the value to a plain Go value via the bridge.
func (v *Value) Export() (interface{}, error) {
	return bridge.GoValue(v.val)
}

// Object is an engine object.
type Object struct {
	Value
	obj *v8go.Object
}

var _ host.Object = (*Object)(nil)

// Get reads a named property.
func (o *Object) Get(name string) (host.Value, error) {
	val, err := o.obj.Get(name)
	if err != nil {
		return nil, err
	}
	return &Value{val: val, env: o.env}, nil
}

// Function is an engine callable.
type Function struct {
	Value
	fn *v8go.Function
}

var _ host.Function = (*Function)(nil)

// Call invokes the function with the global object as receiver. Arguments
// already belonging to this isolate pass through; plain Go values go
// through the bridge.
func (f *Function) Call(args ...interface{}) (host.Value, error) {
	jsArgs := make([]*v8go.Value, 0, len(args))
	created := make([]*v8go.Value, 0, len(args))
	defer func() { bridge.FreeJsValues(created) }()

	for _, arg := range args {
		if vv, ok := arg.(v8valuer); ok {
			jsArgs = append(jsArgs, vv.v8value())
			continue
		}
		jsArg, err := bridge.JsValue(f.env.ctx, arg)
		if err != nil {
			return nil, err
		}
		created = append(created, jsArg)
		jsArgs = append(jsArgs, jsArg)
	}

	res, err := f.fn.Call(f.env.ctx.Global(), bridge.Valuers(jsArgs)...)
	if err != nil {
		return nil, err
	}
	return &Value{val: res, env: f.env}, nil
}

// Promise is an engine promise. It settles on the embedder's loop; State
// only advances after the embedder pumps microtasks.
type Promise struct {
	Value
	promise *v8go.Promise
}

var _ host.Promise = (*Promise)(nil)

// State returns the promise's settlement state.
func (p *Promise) State() host.PromiseState {
	switch p.promise.State() {
	case v8go.Fulfilled:
		return host.Fulfilled
	case v8go.Rejected:
		return host.Rejected
	default:
		return host.Pending
	}
}

// Result returns the settled value.
func (p *Promise) Result() (host.Value, error) {
	if p.promise.State() == v8go.Pending {
		return nil, fmt.Errorf("promise is pending")
	}
	return &Value{val: p.promise.Result(), env: p.env}, nil
}
