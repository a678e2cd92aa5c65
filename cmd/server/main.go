// Command server runs a standalone Minecraft Java Edition protocol 578
// server: it loads config.yaml, binds the configured port and serves
// accepted connections through the java_protocol state machine.
package main

import (
	"flag"
	"log"

	"github.com/go-mclib/protocol/config"
	"github.com/go-mclib/protocol/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server's YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := srv.Listen(); err != nil {
		log.Fatal(err)
	}
}
