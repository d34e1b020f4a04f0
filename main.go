package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetPrefix("lg/goal-engine-api: ")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	engine, err := loadEngine(cfg.TablesFile)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	registerMetrics()

	pool, err := getDBPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	defer pool.Close()

	h := &Handler{db: pool, engine: engine}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	log.Printf("[main] listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("[main] %v", err)
	}
}
