package main

import "github.com/awcjack/joplin-expenses-sub001/cmd/expenses/cmd"

func main() {
	cmd.Execute()
}
