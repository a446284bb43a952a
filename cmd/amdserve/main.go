// Command amdserve runs a development server that loads AMD modules
// from a directory, serves the directory over HTTP and broadcasts module
// state transitions over a websocket. Changes to watched files are
// logged; they are not pushed to browsers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
