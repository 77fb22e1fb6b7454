// Package main provides the tscheck CLI for project-aware TypeScript
// type-checking of individual files.
package main

func main() {
	Execute()
}
