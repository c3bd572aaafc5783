package main

import "os"

// main is the entry point for the specific-grep application.
// The exit status is 0 on success and 1 on any usage, validation or run error.
func main() {
	os.Exit(Execute())
}
