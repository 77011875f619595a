package main

import (
	"os"

	"github.com/echo-social/echo-server/echoservice"
)

func main() {
	if err := echoservice.Run(); err != nil {
		os.Exit(1)
	}
}
