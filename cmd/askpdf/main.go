package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("askpdf: %v", err))
		os.Exit(1)
	}
}
