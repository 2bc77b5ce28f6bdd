package main

import (
	"github.com/pixiretro/pxpack/cmd"
)

func main() {
	cmd.Execute()
}
