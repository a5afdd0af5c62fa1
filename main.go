package main

import "github.com/bill-mca/dry-spell/cmd"

func main() {
	cmd.Execute()
}
