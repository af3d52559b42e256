//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the demo binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/meshclip", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet across the module.
func (Build) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go generate.
func (Build) Tidy() error {
	return goTidy()
}

// Runs the full test suite.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
