package main

import "github.com/theirongolddev/claimsdash/cmd"

func main() {
	cmd.Execute()
}
