package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pxc/internal/config"
	"pxc/internal/core/numerator"
	"pxc/internal/domain/customers"
	"pxc/internal/domain/orders"
	"pxc/pkg/logger"
)

func memoryConfig(backend string) *config.Config {
	return &config.Config{
		Issue: config.IssueConfig{MaxAttempts: 3, Backoff: time.Millisecond},
		Lock:  config.LockConfig{Backend: backend},
	}
}

func TestBuild_Memory(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, memoryConfig(config.LockMemory), logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	o, err := a.Orders.Create(ctx, orders.CreateInput{FullName: "John Doe", Phone: "01700000999"})
	require.NoError(t, err)
	assert.Equal(t, a.Numerator.PeriodKey(numerator.KindOrder), o.PeriodKey)
	assert.Equal(t, int64(1), o.Sequence)

	c, err := a.Customers.Create(ctx, customers.CreateInput{FullName: "Jane Roe"})
	require.NoError(t, err)
	assert.Regexp(t, `^PXC\d{6}0001$`, c.Number)

	assert.Empty(t, a.HealthChecks)
	assert.Equal(t, "memory", a.Info()["storage"])
}

func TestBuild_PostgresLockWithoutDatabase(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a, err := Build(context.Background(), memoryConfig(config.LockPostgres), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	require.NoError(t, err)
	defer a.Close()

	fallback := logs.FilterMessageSnippet("falling back to memory lock").All()
	require.Len(t, fallback, 1)
	assert.Equal(t, "lock", fallback[0].ContextMap()["component"])
	assert.Equal(t, 1, logs.FilterField(zap.String("component", "storage")).Len())

	// Advisory locks need a transaction; the memory store gets a mutex instead.
	_, err = a.Orders.Create(context.Background(), orders.CreateInput{FullName: "John Doe", Phone: "01700000999"})
	require.NoError(t, err)
}

func TestApp_CloseOrder(t *testing.T) {
	var order []int
	a := &App{closers: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}

	a.Close()
	a.Close()

	assert.Equal(t, []int{2, 1}, order)
}

