// Command sireader waits for a card on a connected station, reads it
// out, and prints a summary of its punches.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sportident-go/sidriver/pkg/carddef"
	"github.com/sportident-go/sidriver/pkg/conn"
	"github.com/sportident-go/sidriver/pkg/readout"
	"github.com/sportident-go/sidriver/pkg/transport/serialport"
)

func main() {
	configPath := flag.String("c", "", "optional ini config file path")
	port := flag.String("p", "", "serial port, e.g. /dev/ttyUSB0")
	baud := flag.Int("b", 0, "initial baud rate (defaults to the station's high rate)")
	beepOnDetect := flag.Bool("beep", true, "beep once the card has been fully read out")
	flag.Parse()

	cfg, err := loadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sireader: load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "sireader: no serial port given (use -p or a config file)")
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	tr, err := serialport.Open(cfg.Port, cfg.Baud)
	if err != nil {
		log.WithError(err).Fatal("failed to open serial port")
	}
	defer tr.Close()

	c, err := conn.Open(tr)
	if err != nil {
		log.WithError(err).Fatal("handshake failed")
	}
	defer c.Close()

	log.WithField("port", cfg.Port).Info("waiting for a card")

	for {
		siid, err := c.WaitForCard()
		if err != nil {
			log.WithError(err).Fatal("waiting for card failed")
		}
		log.WithField("siid", siid).Info("card detected")

		def, err := readout.ReadOut(c, siid, readout.AllIntents())
		if err != nil {
			log.WithError(err).Error("read-out failed")
			continue
		}

		printSummary(def)

		if *beepOnDetect {
			if err := c.Beep(1); err != nil {
				log.WithError(err).Warn("beep failed")
			}
		}
	}
}

func printSummary(def carddef.Definition) {
	g, err := readout.ToGeneral(def)
	if err != nil {
		log.WithError(err).Error("could not project read-out result")
		return
	}

	fmt.Printf("SIID: %d\n", g.SIID)
	fmt.Printf("Clear/check: station %d at %d seconds\n", g.ClearCheck.StationCode, g.ClearCheck.Seconds)
	if g.Start != nil {
		fmt.Printf("Start: station %d at %d seconds\n", g.Start.StationCode, g.Start.Seconds)
	}
	if g.Finish != nil {
		fmt.Printf("Finish: station %d at %d seconds\n", g.Finish.StationCode, g.Finish.Seconds)
	}
	fmt.Printf("Punches: %d\n", len(g.Punches))
	for i, p := range g.Punches {
		fmt.Printf("  %2d: station %d at %d seconds\n", i+1, p.StationCode, p.Seconds)
	}
	if g.PersonalData != nil && g.PersonalData.FirstName != nil && g.PersonalData.LastName != nil {
		fmt.Printf("Runner: %s %s\n", *g.PersonalData.FirstName, *g.PersonalData.LastName)
	}
}
