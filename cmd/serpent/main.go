package main

import "github.com/samedit66/eiffel-compiler/cmd/serpent/internal/command"

func main() {
	command.Execute()
}
