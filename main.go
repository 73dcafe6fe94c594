package main

import "github.com/hfg-gmuend/zoomaker/cmd"

func main() {
	cmd.Execute()
}
