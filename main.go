package main

import "github.com/FomoFactory/fomo-relay/cmd"

func main() {
	cmd.Execute()
}
