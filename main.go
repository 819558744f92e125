package main

import "github.com/unsafe9/claude-tmux-hop/cmd"

func main() {
	cmd.Execute()
}
