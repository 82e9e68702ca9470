package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Use stderr since the logger may not be initialized
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
