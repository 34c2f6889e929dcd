package main

import (
	"github.com/mchmarny/textscore/pkg/cli"
)

func main() {
	cli.Execute()
}
