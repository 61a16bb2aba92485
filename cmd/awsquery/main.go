package main

import "github.com/developer-mesh/awsquery/internal/cli"

func main() {
	cli.Execute()
}
