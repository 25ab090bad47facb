package main

import "github.com/kozaktomas/photoid/cmd"

func main() {
	cmd.Execute()
}
