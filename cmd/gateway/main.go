// Command gateway runs the federating GraphQL gateway as a standalone
// HTTP server, reading its executor list from a JSON config file. It
// replaces the teacher repository's federationexample/gqlgateway, which
// wired a hardcoded map of executor addresses into a grpc.Server; this
// gateway federates over plain HTTP executors and serves plain HTTP
// instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/federatedgraph/gateway/gateway"
	"github.com/federatedgraph/gateway/gatewayconfig"
	"github.com/federatedgraph/gateway/gatewayhttp"
	"github.com/federatedgraph/gateway/logger"
)

func main() {
	configPath := flag.String("config", "gateway.json", "path to the gateway executor config")
	addr := flag.String("addr", ":8080", "address to serve GraphQL requests on")
	dumpSchema := flag.Bool("dump-schema", false, "dump the merged schema to stderr after building it")
	flag.Parse()

	log := logger.New()

	cfg, err := gatewayconfig.LoadFile(*configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}

	g := gatewayconfig.BuildGateway(cfg, http.DefaultClient)
	g.SetLogger(log)

	ctx := context.Background()
	if err := g.Build(ctx); err != nil {
		log.Error("initial schema build failed", "error", err)
		os.Exit(1)
	}
	if *dumpSchema {
		fmt.Fprintln(os.Stderr, g.DumpMergedSchema())
	}

	syncer := gateway.NewBackgroundSyncer(g, cfg.SyncInterval(), log)
	go syncer.Run(ctx)

	handler := gatewayhttp.NewHandler(g)
	log.Info("gateway listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
