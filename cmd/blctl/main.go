package main

import "github.com/Kimen6931/BlockLocker/internal/cli"

func main() {
	cli.Execute()
}
