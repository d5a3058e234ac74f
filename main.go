package main

import "mediakit/cmd"

func main() {
	cmd.Execute()
}
