// Command mongolab runs queries and commands against the MongoLab REST API.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr, os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}
