// Package main seeds the configured store with demo orders and customers.
// Workers issue concurrently, which doubles as a smoke test of the
// allocation lock and retry path against a real database.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"pxc/internal/app"
	"pxc/internal/config"
	"pxc/internal/core/types"
	"pxc/internal/domain/customers"
	"pxc/internal/domain/orders"
	"pxc/pkg/logger"
)

var demoNames = []string{
	"John Doe", "Madonna", "Rahim Uddin", "Ayesha Siddiqua", "Karim",
	"Nusrat Jahan", "Tanvir Ahmed", "Farhana Islam",
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)
	svc, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to build application", "error", err)
	}
	defer svc.Close()

	nOrders := getEnvInt("SEED_ORDERS", 20)
	nCustomers := getEnvInt("SEED_CUSTOMERS", 10)
	workers := getEnvInt("SEED_WORKERS", 4)

	start := time.Now()
	orderErrs := run(nOrders, workers, func(i int) error {
		_, err := svc.Orders.Create(ctx, orders.CreateInput{
			FullName: demoNames[i%len(demoNames)],
			Phone:    fmt.Sprintf("017%08d", i),
			Total:    types.MustMoney(strconv.Itoa(100 + i*5)),
		})
		return err
	})
	customerErrs := run(nCustomers, workers, func(i int) error {
		_, err := svc.Customers.Create(ctx, customers.CreateInput{
			FullName: demoNames[i%len(demoNames)],
			Phone:    fmt.Sprintf("018%08d", i),
		})
		return err
	})

	for _, err := range append(orderErrs, customerErrs...) {
		log.Errorw("seed failed", "error", err)
	}
	log.Infow("seed complete",
		"orders", nOrders-len(orderErrs),
		"customers", nCustomers-len(customerErrs),
		"workers", workers,
		"elapsed", time.Since(start),
	)
	if len(orderErrs)+len(customerErrs) > 0 {
		os.Exit(1)
	}
}

// run calls fn for 0..n-1 on workers goroutines and collects errors.
func run(n, workers int, fn func(i int) error) []error {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := fn(i); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return errs
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
