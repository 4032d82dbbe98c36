package main

import (
	"github.com/uncaged-coder/echogit/cmd"
	"github.com/uncaged-coder/echogit/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
