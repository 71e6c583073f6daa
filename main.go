package main

import "github.com/rpgo/budgetcast/cmd"

func main() {
	cmd.Execute()
}
