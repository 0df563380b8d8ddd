package main

import "github.com/danass/leha/cmd"

func main() {
	cmd.Execute()
}
