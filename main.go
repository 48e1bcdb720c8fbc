package main

import "github.com/agentic-research/weft/cmd"

func main() {
	cmd.Execute()
}
