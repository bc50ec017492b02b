package main

import (
	"github.com/guettli/quickerchat/cmd"
)

func main() {
	cmd.Execute()
}
