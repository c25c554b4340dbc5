package main

import "github.com/friendfinder/userstore/cmd"

func main() {
	cmd.Execute()
}
