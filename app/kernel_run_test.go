package app

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jmillet/stockroom/framework/config"
)

func TestRun_RestartBudgetExhausted(t *testing.T) {
	// Hold the port so every ListenAndServe attempt fails immediately.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	core, logs := observer.New(zap.DebugLevel)
	k := &Kernel{
		cfg: &config.Config{
			App: config.AppConfig{
				Name:        "stockroom",
				Env:         "testing",
				Port:        fmt.Sprint(port),
				MaxRestarts: 2,
			},
			Cache:   config.CacheConfig{TTL: time.Minute},
			Session: config.SessionConfig{Backend: "memory", TTL: time.Hour},
		},
		log: zap.New(core),
	}

	err = k.Run()
	require.Error(t, err, "a spent restart budget surfaces the listener error")

	// One build-and-bind attempt per allowed restart, a teardown after each
	// failed attempt, one retry inside the budget, then exhaustion.
	assert.Equal(t, 2, logs.FilterMessage("listening").Len())
	assert.Equal(t, 2, logs.FilterMessage("container torn down").Len())
	assert.Equal(t, 1, logs.FilterMessage("listener failed, restarting").Len())
	assert.Equal(t, 1, logs.FilterMessage("restart budget exhausted").Len())
}
