package main

import (
	"github.com/bastiongames/bastion/internal/cli"
)

func main() {
	cli.Execute()
}
