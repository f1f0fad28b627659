package main

import "github.com/dh1tw/opuscodec/cmd"

func main() {
	cmd.Execute()
}
