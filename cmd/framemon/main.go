package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	fx "github.com/robotalks/uartmsg/pkg/framework"
	"github.com/robotalks/uartmsg/pkg/l1/comm/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
	device  = "+"
)

func init() {
	if val := os.Getenv("UARTMSG_RELAY"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", device, "Device ID to watch, + for all.")
}

func printFrames(rw *mqtt.ReadWriter) error {
	for {
		topic, pkt, err := rw.ReadTopicPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("%s: [%d] % x", topic, len(pkt), pkt)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(5 * time.Second); err != nil {
		log.Fatalln(err)
	}

	rw := mqtt.NewPacketReadWriter(q).ForDevice(device)
	err = fx.NewRunner().RunUntilSignaled(
		fx.NamedRun("subscribe", rw),
		fx.NamedRun("print", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, rw, func() error {
				return printFrames(rw)
			})
		})),
	)
	q.Close()
	if err != nil {
		log.Fatalln(err)
	}
}
