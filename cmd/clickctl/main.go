package main

import (
	"clickarena/internal/cli"
)

func main() {
	cli.Execute()
}
