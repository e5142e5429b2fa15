package main

import "github.com/xob0t/google-photos-mobile-client/cmd"

func main() {
	cmd.Execute()
}
