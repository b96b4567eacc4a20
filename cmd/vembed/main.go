package main

import "verse-embed/cmd/vembed/cmd"

func main() {
	cmd.Execute()
}
