//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and starts the testbed from the repository root so assets/ resolves.
func (Run) Testbed() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run testbed...")
	_, err := executeCmd("bin/prelight", withDir("."), withStream())
	return err
}
