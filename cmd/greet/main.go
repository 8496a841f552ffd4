// Command greet mirrors the classic native-addon demo: when the module is
// the program's entry point, require node:process, read argv and the
// runtime version, and print a greeting.
//
// Bare V8 ships no Node builtins, so the program installs a small shim
// providing process.getBuiltinModule and a createRequire that serves
// node:process from this process's own arguments.
package main

import (
	"fmt"
	"net/url"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/modenv/modenv"
	v8env "github.com/modenv/modenv/v8"
	"rogchap.com/v8go"
)

const shimTemplate = `
(function(argv, version, mainFilename) {
	const modules = {
		"node:process": { argv: argv, version: version },
	};
	const nodeModule = {
		createRequire: (path) => {
			const require = (id) => {
				if (id in modules) return modules[id];
				throw new Error("cannot find module " + id);
			};
			require.resolve = (id) => id;
			require.main = { filename: mainFilename };
			return require;
		},
	};
	globalThis.process = {
		getBuiltinModule: (name) => name === "node:module" ? nodeModule : undefined,
	};
})(%s, %s, %s)
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "greet: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	iso := v8go.NewIsolate()
	defer iso.Dispose()
	ctx := v8go.NewContext(iso)
	defer ctx.Close()

	argv, err := jsoniter.MarshalToString(append([]string{"node"}, os.Args...))
	if err != nil {
		return err
	}
	version, err := jsoniter.MarshalToString("v22.0.0")
	if err != nil {
		return err
	}
	mainFilename, err := jsoniter.MarshalToString(exe)
	if err != nil {
		return err
	}

	shim := fmt.Sprintf(shimTemplate, argv, version, mainFilename)
	if _, err := ctx.RunScript(shim, "shim.js"); err != nil {
		return err
	}

	fileURL := url.URL{Scheme: "file", Path: exe}
	env := v8env.New(ctx, fileURL.String())

	isMain, err := modenv.IsMain(env)
	if err != nil {
		return err
	}
	if !isMain {
		return nil
	}

	process, err := modenv.RequireAs[map[string]interface{}](env, "node:process")
	if err != nil {
		return err
	}

	args, _ := process["argv"].([]interface{})
	if len(args) < 3 {
		return fmt.Errorf("missing argument: name")
	}
	name, _ := args[2].(string)
	ver, _ := process["version"].(string)

	fmt.Printf("Hello %s from Go! Runtime version: %s\n", name, ver)
	return nil
}
