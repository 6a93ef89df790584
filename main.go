package main

import (
	"os"

	"github.com/planwright/planwright/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
