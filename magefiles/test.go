//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, scripts, bench).
type Test mg.Namespace

// scriptPkg holds the testscript suite, which builds the binary itself.
const scriptPkg = "github.com/mesh-intelligence/todos/cmd/todos"

// All runs every test, including the CLI scripts.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs package tests, skipping the CLI script suite.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && pkg != scriptPkg {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test", "-v"}, unitPkgs...)
	return sh.RunV(binGo, args...)
}

// Scripts runs the testscript suite under cmd/todos/testdata/scripts.
func (Test) Scripts() error {
	return sh.RunV(binGo, "test", "-v", "-run", "TestScripts", cmdDir)
}

// Bench runs the storage benchmarks.
func (Test) Bench() error {
	return sh.RunV(binGo, "test", "-run", "^$", "-bench", ".", "-benchmem", "./internal/sqlite")
}
