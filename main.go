package main

import "github.com/wpgo/wealth-planner/cmd"

func main() {
	cmd.Execute()
}
