package main

import (
	"os"

	"github.com/maskd-io/maskd/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
