// Package main implements the born executable.
package main

import (
	"github.com/born-ml/cloneable/cmd/born/cmd"
)

func main() {
	cmd.Execute()
}
