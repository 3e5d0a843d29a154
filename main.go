package main

import "github.com/DGarbs51/mockedup/cmd"

func main() {
	cmd.Execute()
}
