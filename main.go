package main

import "github.com/mt4110/badgerclips/cmd"

func main() {
	cmd.Execute()
}
