// Package host defines the capability surface an embedding runtime exposes
// to native code. The root package consumes these interfaces only; concrete
// engines implement them (see the v8 package).
package host

// Env is the per-invocation handle the runtime passes into native code.
// It is borrowed for the duration of one invocation and must not be
// retained; anything that has to outlive the invocation goes through a Ref.
type Env interface {
	// ModuleFileName reports the file: URL of the module this env belongs to.
	ModuleFileName() (string, error)

	// Global returns the env's global object.
	Global() (Object, error)

	// NewRef creates a persistent reference to a value. The reference
	// survives past this invocation and stays opaque until rebound.
	NewRef(v Value) (Ref, error)
}

// Value is one runtime value, valid only within the invocation that
// produced it.
type Value interface {
	// String returns the value coerced to a string.
	String() string

	// IsUndefined reports whether the value is the runtime's undefined.
	IsUndefined() bool

	// IsNull reports whether the value is the runtime's null.
	IsNull() bool

	// AsObject casts the value to an object.
	AsObject() (Object, error)

	// AsFunction casts the value to a callable.
	AsFunction() (Function, error)

	// AsPromise casts the value to a promise.
	AsPromise() (Promise, error)

	// Export converts the value to a plain Go value. The mapping is
	// engine-defined.
	Export() (interface{}, error)
}

// Object is a value with named properties.
type Object interface {
	Value

	// Get reads a named property.
	Get(name string) (Value, error)
}

// Function is a callable value. Arguments are Go values converted by the
// engine, or Values already belonging to the same invocation.
type Function interface {
	Value

	// Call invokes the function with positional arguments.
	Call(args ...interface{}) (Value, error)
}

// PromiseState is the settlement state of a Promise.
type PromiseState int

// Promise settlement states
const (
	Pending PromiseState = iota
	Fulfilled
	Rejected
)

// Promise is a value that settles on the runtime's own event loop. Callers
// never block on it here; they hand it back to the embedder.
type Promise interface {
	Value

	// State returns the current settlement state.
	State() PromiseState

	// Result returns the settled value. Calling it on a pending promise is
	// an error.
	Result() (Value, error)
}

// Ref is a persistent reference to a runtime value. A Ref by itself is not
// usable; it must be rebound against a live env first.
type Ref interface {
	// Bind converts the reference into a value scoped to env's invocation.
	// Binding against an env from a different underlying runtime instance
	// is an error.
	Bind(env Env) (Value, error)
}
