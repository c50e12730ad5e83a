package main

import (
	"os"

	"github.com/AntonStoeckl/library-lending-go/cmd/librarian/command"
)

func main() {
	os.Exit(command.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
