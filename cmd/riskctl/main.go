package main

import "github.com/airtraffic/riskctl/internal/cli"

func main() {
	cli.Execute()
}
