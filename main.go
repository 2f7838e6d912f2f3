package main

import "github.com/leakscout/leakscout/cmd"

func main() {
	cmd.Execute()
}
