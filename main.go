package main

import "github.com/fiffu/billwatch/cmd"

func main() {
	cmd.Execute()
}
