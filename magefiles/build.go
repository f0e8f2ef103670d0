//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles every package and the testbed binary.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	fmt.Println("Building testbed...")
	_, err := executeCmd("go", withArgs("build", "-o", "bin/prelight", "."), withStream())
	return err
}

type Test mg.Namespace

// Runs the test suite of every package.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the pipeline tests with the race detector.
func (Test) Pipeline() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/renderer/pipeline/...", "./engine/systems/...", "./engine/config/..."), withStream())
	return err
}
