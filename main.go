package main

import "github.com/deploymenttheory/go-aefs/cmd"

func main() {
	cmd.Execute()
}
