package main

import "yt-audio-vault/cmd"

func main() {
	cmd.Execute()
}
