package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robolink/hwio.go/pkg/cli/sh"

	_ "github.com/robolink/hwio.go/pkg/cli/cmds/hwio"
)

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
