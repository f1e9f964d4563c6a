//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the ordkort binary.
func Build() error {
	return sh.RunV("go", "build", "-o", "ordkort", "./cmd/ordkort")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// TestAll runs every test, including the ones that hit live APIs.
func TestAll() error {
	return sh.RunV("go", "test", "./...")
}

// Lint vets the source tree.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and installs the binary into GOPATH/bin.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/ordkort")
}
