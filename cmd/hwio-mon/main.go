package main

//go-build: CGO_ENABLED=0

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/robolink/hwio.go/pkg/mqtt"
	"github.com/robolink/hwio.go/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/hwio/"
)

func init() {
	if val := os.Getenv("HWIO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", func(topic string, payload []byte) {
		var sample telemetry.Sample
		if err := json.Unmarshal(payload, &sample); err != nil {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		log.Printf("%s: pos=%d vel=%.1f raw=%.1f load=%d",
			topic, sample.Position, sample.Velocity, sample.RawVel, sample.LoadUnits)
	})
	<-(chan struct{})(nil)
}
