package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"en-garde-armory-be/internal/config"
	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/pkg/events"
	pktNats "en-garde-armory-be/pkg/nats"

	"github.com/fatih/color"
)

// tail_events prints the showcase event stream: selections, insight requests and completions.
func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, pktNats.SubjectPrefix+".>", "", func(ctx context.Context, event events.Event) error {
		data, _ := json.Marshal(event.Payload())
		line := fmt.Sprintf("%s %-20s %s", event.Timestamp().Format("15:04:05"), event.EventType(), data)

		switch event.EventType() {
		case constant.EventEquipmentSelected:
			color.Cyan("%s", line)
		case constant.EventInsightRequested:
			color.Yellow("%s", line)
		case constant.EventInsightCompleted:
			if event.Payload()["outcome"] == "success" {
				color.Green("%s", line)
			} else {
				color.Red("%s", line)
			}
		default:
			fmt.Println(line)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	color.Cyan("Listening on %s.> (Ctrl+C to stop)", pktNats.SubjectPrefix)
	<-ctx.Done()
}
