package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adnhq/nft-extensions/config"
	"github.com/adnhq/nft-extensions/gateway"
	"github.com/adnhq/nft-extensions/native/allowlist"
	"github.com/adnhq/nft-extensions/native/mint"
	"github.com/adnhq/nft-extensions/native/reveal"
	"github.com/adnhq/nft-extensions/native/sale"
	"github.com/adnhq/nft-extensions/observability/logging"
	"github.com/adnhq/nft-extensions/state"
	"github.com/adnhq/nft-extensions/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "./dropd.toml", "path to the node configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup("dropd", cfg.Environment, cfg.LogFile)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "collection"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ledger, err := state.NewManager(db)
	if err != nil {
		log.Fatalf("open token ledger: %v", err)
	}

	// Config seeds the collection only on first boot. Afterwards the
	// persisted snapshot is authoritative, so one-way transitions and the
	// mutable sale parameters survive a restart.
	col, err := ledger.LoadCollection()
	firstBoot := errors.Is(err, state.ErrNoCollection)
	switch {
	case firstBoot:
		price, perr := cfg.Collection.PriceBig()
		if perr != nil {
			log.Fatalf("parse price: %v", perr)
		}
		root, rerr := cfg.Collection.RootHash()
		if rerr != nil {
			log.Fatalf("parse merkle root: %v", rerr)
		}
		col = &state.Collection{
			PresaleOpen:    true,
			Reserve:        cfg.Collection.Reserve,
			Funds:          big.NewInt(0),
			Price:          price,
			MintLimit:      cfg.Collection.PerTxMintLimit,
			Root:           root,
			RevealTime:     cfg.Collection.RevealTime,
			PlaceholderURI: cfg.Collection.PlaceholderURI,
		}
	case err != nil:
		log.Fatalf("load collection state: %v", err)
	}

	list := allowlist.RestoreLedger(col.Root, cfg.Collection.PerAddressPresaleCap, col.PresaleOpen)
	list.SetClaimStore(ledger)

	ctrl := sale.RestoreController(col.Price, col.MintLimit, col.Reserve, col.Funds)
	// Settlement of custody payouts happens off-module; the node records the
	// payout instruction and leaves the transfer to the operator's rails.
	ctrl.SetFundSink(sale.SinkFunc(func(to [20]byte, amount *big.Int) error {
		logger.Info("custody payout instructed", "to", fmt.Sprintf("%x", to), "amount", amount.String())
		return nil
	}))

	var (
		engine *mint.Engine
		manual *reveal.Gate
		timed  *reveal.TimedGate
	)
	if col.RevealTime > 0 {
		if firstBoot {
			timed, err = reveal.NewTimedGate(ledger, cfg.Collection.BaseURI, col.PlaceholderURI, col.RevealTime)
			if err != nil {
				log.Fatalf("configure timed reveal: %v", err)
			}
		} else {
			timed = reveal.RestoreTimedGate(ledger, cfg.Collection.BaseURI, col.PlaceholderURI, col.RevealTime)
		}
		engine = mint.NewEngine(ledger, timed, list, ctrl)
	} else {
		manual = reveal.RestoreGate(ledger, cfg.Collection.BaseURI, col.PlaceholderURI, col.Revealed)
		engine = mint.NewEngine(ledger, manual, list, ctrl)
	}
	engine.SetLogger(logger)

	recorder := state.NewRecorder(ledger, list, ctrl, manual, timed, logger)
	list.SetEmitter(recorder)
	ctrl.SetEmitter(recorder)
	if manual != nil {
		manual.SetEmitter(recorder)
	} else {
		timed.SetEmitter(recorder)
	}
	engine.SetEmitter(recorder)
	if firstBoot {
		if err := ledger.SaveCollection(recorder.Snapshot()); err != nil {
			log.Fatalf("seed collection state: %v", err)
		}
	}

	server := gateway.NewServer(engine, manual, timed, gateway.AllowAll{}, logger)
	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: server,
	}

	go func() {
		logger.Info("dropd listening", "address", cfg.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down dropd")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "graceful shutdown failed: %v\n", err)
	}
}
