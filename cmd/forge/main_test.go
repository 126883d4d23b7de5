package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/tidwall/gjson"

	"github.com/PerryB-GIT/support-forge-app-sub000/cmd/forge/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"forge": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(cmd.ExitCode(err))
			}
		},
		// fakever echoes its arguments, standing in for `tool --version`
		// and for install commands that succeed.
		"fakever": func() {
			fmt.Println(strings.Join(os.Args[1:], " "))
		},
		// fakefail prints its arguments to stderr and exits 1.
		"fakefail": func() {
			fmt.Fprintln(os.Stderr, strings.Join(os.Args[1:], " "))
			os.Exit(1)
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Set HOME to WORK so ~/.forge/ is created inside the temp dir
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// json-key asserts that a JSON path exists in a file, optionally
			// with a given string value.
			// Usage: [!] json-key <path> <gjson-path> [value]
			"json-key": cmdJSONKey,
		},
	})
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), args[1])
	if neg && contains {
		ts.Fatalf("file %s contains %q (expected not to)", args[0], args[1])
	}
	if !neg && !contains {
		ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], args[1], string(data))
	}
}

// cmdJSONKey checks a gjson path in a JSON file.
func cmdJSONKey(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 || len(args) > 3 {
		ts.Fatalf("usage: json-key <path> <gjson-path> [value]")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}
	if !gjson.ValidBytes(data) {
		ts.Fatalf("%s is not valid JSON:\n%s", args[0], string(data))
	}

	res := gjson.GetBytes(data, args[1])
	match := res.Exists()
	if match && len(args) == 3 {
		match = res.String() == args[2]
	}

	if neg && match {
		ts.Fatalf("%s: %s = %s (expected no match)", args[0], args[1], res.Raw)
	}
	if !neg && !match {
		if res.Exists() {
			ts.Fatalf("%s: %s = %s, want %q", args[0], args[1], res.Raw, args[2])
		}
		ts.Fatalf("%s: %s not found\nContent:\n%s", args[0], args[1], string(data))
	}
}
