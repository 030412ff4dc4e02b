package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/uartmsg/pkg/framework"
	"github.com/robotalks/uartmsg/pkg/telemetry"
)

func init() {
	telemetry.SetupFlags()
}

func main() {
	flag.Parse()

	conf, err := telemetry.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	app, err := conf.NewApp()
	if err != nil {
		log.Fatalln(err)
	}
	err = fx.NewRunner().RunUntilSignaled(app.Runnables()...)
	if cerr := app.Close(); cerr != nil {
		log.Println(cerr)
	}
	if err != nil {
		log.Fatalln(err)
	}
}
