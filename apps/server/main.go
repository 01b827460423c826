package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackjack-lite/apps/server/internal/bot"
	"blackjack-lite/apps/server/internal/config"
	"blackjack-lite/apps/server/internal/gateway"
	"blackjack-lite/apps/server/internal/ledger"
	"blackjack-lite/apps/server/internal/lobby"
	"blackjack-lite/apps/server/internal/table"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] config: %v", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("[Server] logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tbl, err := table.New(cfg.Game, logger)
	if err != nil {
		return err
	}
	defer tbl.Stop()
	tbl.AddRoundEndHook(func(s table.RoundSummary) {
		if s.Aborted() {
			return
		}
		for _, res := range s.Results {
			logger.Debug("seat result",
				zap.String("round_id", s.RoundID),
				zap.Int("seat", res.SeatID),
				zap.Int("score", res.Score),
				zap.Stringer("outcome", res.Outcome),
				zap.Bool("delivered", res.Delivered))
		}
	})

	rounds := ledger.NewService(cfg.RecentRounds)
	tbl.AddRoundEndHook(rounds.Record)

	lby := lobby.New(tbl, logger)
	for i := 0; i < cfg.Bots; i++ {
		conn, seat, err := lby.AdmitPipe()
		if err != nil {
			return fmt.Errorf("seat house player: %w", err)
		}
		p := bot.NewPlayer(bot.ThresholdBrain{StandOn: cfg.Game.DealerStandsOn}, logger.With(zap.Int("seat", seat.ID)))
		go func() {
			if err := p.Play(ctx, conn); err != nil {
				logger.Warn("house player stopped", zap.Int("seat", seat.ID), zap.Error(err))
			}
		}()
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		gw := gateway.New(lby, logger)
		defer gw.Close()
		httpSrv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           gw.Routes(ledger.NewHTTPHandler(rounds).RegisterRoutes),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http gateway listening", zap.String("addr", cfg.HTTPAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http gateway failed", zap.Error(err))
				stop()
			}
		}()
	}

	logger.Info("server started",
		zap.String("addr", ln.Addr().String()),
		zap.Int("seats", cfg.Game.MaxPlayers),
		zap.Int("house_players", cfg.Bots),
		zap.String("env", cfg.Env))

	err = lby.Serve(ctx, ln)

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("http shutdown", zap.Error(serr))
		}
	}
	logger.Info("server stopped")
	return err
}
