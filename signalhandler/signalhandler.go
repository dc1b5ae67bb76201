package signalhandler

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"similarimages/logging"
)

// SetupHandler installs a handler so an interrupted run closes the log
// file before exiting instead of dying mid-write.
func SetupHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			logging.CloseLogger()
			os.Exit(130)
		}
	}()
}

// GetOptimalProcs returns the number of worker goroutines to use for
// parallel fingerprinting. Decoding is CPU-bound, so a handful of cores
// are left for the rest of the system.
func GetOptimalProcs() int {
	numCPU := runtime.NumCPU()

	maxProcs := (numCPU * 3) / 4
	if maxProcs < 1 {
		maxProcs = 1
	}

	return maxProcs
}
