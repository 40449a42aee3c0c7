package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/watch"
	"github.com/vango-dev/vbind/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		project projectFlags
		addr    string
		title   string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a template live over WebSocket",
		Long: `Serve a template as a live page. Every browser tab gets its own
store; events are sent to the server, dispatched on the compiled
template and the new HTML is pushed back.

With --watch, local template, data and config files are polled and
open pages reload when they change. A template that no longer
compiles is rejected and the previous one keeps serving.

Also serves /metrics (Prometheus) and /healthz.

Examples:
  vbind serve -t page.html -d data.yaml
  vbind serve --addr=:3000 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := project.load(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = p.cfg.Addr
			}
			if title == "" {
				title = p.cfg.Title
			}
			srv, err := live.New(live.Config{
				Template:       p.markup,
				Data:           p.data,
				El:             p.cfg.El,
				Title:          title,
				MaxUpdateDepth: p.cfg.MaxUpdateDepth,
			})
			if err != nil {
				return err
			}

			if watch {
				go watchProject(ctx, srv, &project, p.localPaths())
			}

			info(cmd.OutOrStdout(), "Serving on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	project.register(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from vbind.yaml, then :8080)")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload pages when local sources change")

	return cmd
}

// watchProject reloads the server whenever one of paths changes.
func watchProject(ctx context.Context, srv *live.Server, flags *projectFlags, paths []string) {
	w := watch.New(watch.Config{Paths: paths})
	w.OnChange(func(changes []watch.Change) {
		slog.Info("sources changed", "path", changes[0].Path, "count", len(changes))
		p, err := flags.load(ctx)
		if err != nil {
			slog.Error("reload failed", "error", err)
			return
		}
		if err := srv.Reload(ctx, p.markup, p.data); err != nil {
			slog.Error("reload failed", "error", err)
		}
	})
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("watcher stopped", "error", err)
	}
}
