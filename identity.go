package modenv

import (
	"github.com/modenv/modenv/host"
	"github.com/yaoapp/kun/exception"
)

// identity keys the resolver caches. Two envs are treated as the same
// execution context iff they report the same module file URL. This assumes
// one module file maps to one long-lived context for the life of the
// process; a host instantiating the same file into several independent
// contexts would alias their caches.
type identity string

// identityOf derives the cache key from the env's reported file URL. The
// raw string is used, not the normalized path, so no path validation runs
// for cache bookkeeping. A host that cannot report the file URL has
// violated the embedding contract; that is thrown, not returned.
func identityOf(env host.Env) identity {
	name, err := env.ModuleFileName()
	if err != nil {
		exception.New("module file name: %s", 500, err.Error()).Throw()
	}
	return identity(name)
}
