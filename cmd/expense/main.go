// Package main is the expense entry CLI: it lists cost objects, submits a
// draft invoice from a JSON file and issues technician tokens.
package main

func main() {
	Execute()
}
