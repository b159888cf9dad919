package main

import (
	"github.com/niprobin/curated-digging/cmd"
)

func main() {
	cmd.Execute()
}
