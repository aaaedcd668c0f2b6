package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/config"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/serverapp"
)

func main() {
	cfg, err := config.Load("gymbro_config.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	defer app.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("gymbro listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, app.Handler))
}
