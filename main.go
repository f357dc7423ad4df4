package main

import (
	"os"

	"market-scraper/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
