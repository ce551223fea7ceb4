package main

import "github.com/mcoot/mahjonggame-go/internal/cli"

func main() {
	cli.Execute()
}
