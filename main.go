package main

import "github.com/KaramelBytes/shadowdb-cli/cmd"

func main() {
	cmd.Execute()
}
