package modenv

import (
	"fmt"
	"os"
	"sync"

	"github.com/yaoapp/kun/log"
)

// helperScript wraps dynamic import and import.meta.resolve, which exist
// only at syntax level, into ordinary callables. Requiring this script from
// the native module's own directory keeps relative specifier resolution
// anchored there.
const helperScript = `const _import = (specifier, options) => import(specifier, options);
export { _import as "import" };
export const importMetaResolve = (specifier) => import.meta.resolve(specifier);
`

const helperSuffix = ".esm-helpers.js"

var (
	helperMu    sync.Mutex
	helperPaths = map[string]string{}
)

// helperScriptPath derives the helper script's sibling path for the given
// native module path and writes the script there, once per path per
// process. Stale content from an earlier process run is overwritten on
// first use. A failed write is not cached; the next call retries. Not safe
// against another process racing the first write for the same path.
func helperScriptPath(addonPath string) (string, error) {
	helperMu.Lock()
	path, has := helperPaths[addonPath]
	helperMu.Unlock()
	if has {
		return path, nil
	}

	path = addonPath + helperSuffix
	if err := os.WriteFile(path, []byte(helperScript), 0644); err != nil {
		return "", fmt.Errorf("write helper script %s: %s", path, err)
	}

	helperMu.Lock()
	helperPaths[addonPath] = path
	helperMu.Unlock()

	log.Trace("[modenv] helper script written: %s", path)
	return path, nil
}
