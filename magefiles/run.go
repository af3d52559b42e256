//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the copy/paste round trip demo.
func (Run) Roundtrip() error {
	fmt.Println("Run round trip demo...")
	if _, err := executeCmd("go", withArgs("run", ".", "roundtrip"), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches the payload file for updates from the partner application.
func (Run) Watch() error {
	if _, err := executeCmd("go", withArgs("run", ".", "watch"), withStream()); err != nil {
		return err
	}
	return nil
}
