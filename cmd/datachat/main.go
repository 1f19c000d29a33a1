// datachat – chat front-end that answers questions with warehouse data.
//
// Running `datachat` with no subcommand starts the HTTP server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
