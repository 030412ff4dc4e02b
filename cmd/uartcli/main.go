package main

import (
	"github.com/robotalks/uartmsg/pkg/cli/sh"
	"github.com/robotalks/uartmsg/pkg/telemetry"
)

//go-build: CGO_ENABLED=0

func init() {
	telemetry.SetupFlags()
}

func main() {
	sh.Main()
}
