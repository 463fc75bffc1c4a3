package main

import "doxreduce/internal/cli"

func main() {
	cli.Execute()
}
