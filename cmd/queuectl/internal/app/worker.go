package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/httpapi"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/worker"
)

// pidFile returns the path of the pool's PID file, kept alongside the
// configured db so `worker stop`/`worker health` can find a running
// pool without a separate daemon registry.
func pidFile(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), ".queuectl.pid")
}

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run, stop, or inspect the worker pool",
	}
	cmd.AddCommand(newWorkerStartCmd(), newWorkerStopCmd(), newWorkerHealthCmd())
	return cmd
}

func newWorkerStartCmd() *cobra.Command {
	var (
		count             int
		httpAddr          string
		retentionInterval time.Duration
		retentionState    string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the worker pool in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cfg, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if count <= 0 {
				count = 4
			}

			pool := worker.NewPool(manager, worker.Config{
				Count:            count,
				PollInterval:     cfg.PollInterval(),
				JobTimeout:       cfg.JobTimeoutDuration(),
				BackoffBase:      cfg.BackoffBase,
				HeartbeatTimeout: cfg.HeartbeatTimeoutDuration(),
			}, logger())

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := pool.Start(ctx); err != nil {
				return fmt.Errorf("start pool: %w", err)
			}

			var retention *worker.RetentionWorker
			if retentionInterval > 0 {
				state, err := job.ParseState(retentionState)
				if err != nil {
					return err
				}
				retention = worker.NewRetentionWorker(manager, worker.RetentionConfig{
					State:    state,
					Interval: retentionInterval,
				}, logger())
				if err := retention.Start(ctx); err != nil {
					return fmt.Errorf("start retention worker: %w", err)
				}
			}

			pf := pidFile(cfg.DBPath)
			if err := os.WriteFile(pf, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
				logger().Warn("cannot write pid file", "path", pf, "err", err)
			}
			defer os.Remove(pf)

			server := httpapi.NewServer(manager, pool.Health())
			httpSrv := &http.Server{Addr: httpAddr, Handler: httpapi.NewRouter(server)}
			go func() {
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger().Error("dashboard server failed", "err", err)
				}
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "worker pool started: %d workers, dashboard on %s\n", count, httpAddr)

			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = httpSrv.Shutdown(shutdownCtx)

			var wg sync.WaitGroup
			var poolErr, retentionErr error
			wg.Add(1)
			go func() {
				defer wg.Done()
				poolErr = pool.Stop(30 * time.Second)
			}()
			if retention != nil {
				wg.Add(1)
				go func() {
					defer wg.Done()
					retentionErr = retention.Stop(30 * time.Second)
				}()
			}
			wg.Wait()
			if poolErr != nil {
				return poolErr
			}
			return retentionErr
		},
	}

	cmd.Flags().IntVar(&count, "count", 4, "number of workers")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "127.0.0.1:8090", "dashboard listen address")
	cmd.Flags().DurationVar(&retentionInterval, "retention-interval", 0, "if set, periodically delete terminal jobs at this interval (e.g. 1h)")
	cmd.Flags().StringVar(&retentionState, "retention-state", "completed", "terminal state the retention worker deletes (completed or dead)")
	return cmd
}

func newWorkerStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Send a terminate signal to a running worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			raw, err := os.ReadFile(pidFile(cfg.DBPath))
			if err != nil {
				return fmt.Errorf("no running worker pool found: %w", err)
			}
			pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
			if err != nil {
				return fmt.Errorf("corrupt pid file: %w", err)
			}

			proc, err := os.FindProcess(pid)
			if err != nil {
				return err
			}
			if err := proc.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("signal pid %d: %w", pid, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent terminate signal to pid %d\n", pid)
			return nil
		},
	}
}

func newWorkerHealthCmd() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Print per-worker alive status and jobs processed",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(fmt.Sprintf("http://%s/api/health", httpAddr))
			if err != nil {
				return fmt.Errorf("reach worker dashboard at %s: %w", httpAddr, err)
			}
			defer resp.Body.Close()

			var statuses []worker.WorkerStatus
			if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
				return fmt.Errorf("decode health response: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"WorkerID", "Alive", "JobsProcessed", "LastHeartbeat"})
			for _, s := range statuses {
				table.Append([]string{
					fmt.Sprintf("%d", s.WorkerID),
					fmt.Sprintf("%t", s.Alive),
					fmt.Sprintf("%d", s.JobsProcessed),
					s.LastHeartbeat.Format("2006-01-02T15:04:05Z"),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", "127.0.0.1:8090", "dashboard address to query")
	return cmd
}
