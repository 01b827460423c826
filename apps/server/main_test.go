package main

import (
	"net"
	"testing"

	"blackjack-lite/apps/server/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunReturnsListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Addr = taken.Addr().String()
	cfg.Bots = 1

	require.Error(t, run(cfg, zap.NewNop()))
}
