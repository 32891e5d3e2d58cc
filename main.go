package main

import "github.com/adeharia/finance-tracker/cmd"

func main() {
	cmd.Execute()
}
