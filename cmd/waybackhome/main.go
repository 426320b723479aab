package main

import "waybackhome/internal/cli"

func main() {
	cli.Execute()
}
