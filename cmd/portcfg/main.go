// Package main provides the portcfg CLI for resolving port build
// configurations.
package main

func main() {
	Execute()
}
