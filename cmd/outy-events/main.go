package main

import "github.com/lfrguimaraes/outy-back/internal/cli"

func main() {
	cli.Execute()
}
