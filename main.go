package main

import "github.com/gaurav-prasanna/doclake/cmd"

func main() {
	cmd.Execute()
}
