package main

import "github.com/twiced-technology-gmbh/deadliner/cmd"

func main() {
	cmd.Execute()
}
