package main

import "taakra-backend/cmd"

func main() {
	cmd.Run()
}
