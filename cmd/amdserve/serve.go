package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kard/amdloader"
	"github.com/kard/amdloader/host"
	"github.com/kard/amdloader/transform"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load an entry module and serve module state events over a websocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("dir", ".", "directory of module scripts to serve")
	serveCmd.Flags().String("entry", "main.js", "entry module, resolved relative to --dir")
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().Bool("lua", false, "evaluate modules as Lua chunks instead of treating them as opaque content")
	serveCmd.Flags().Bool("minify", false, "run fetched content through jsmin before evaluating")
	viper.BindPFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	dir := viper.GetString("dir")
	entry := viper.GetString("entry")
	addr := viper.GetString("addr")

	fileHost := host.NewFileHost(dir)
	if viper.GetBool("minify") {
		fileHost.Transform = transform.Pipeline{transform.JSMin}
	}

	var h amd.Host = fileHost
	if viper.GetBool("lua") {
		h = host.NewLuaHost(fileHost)
	}

	inspector := host.NewInspector()

	cfg := amd.DefaultConfig()
	cfg.DocumentURL = "http://" + addr + "/"

	loader := amd.New(
		h,
		amd.WithConfig(cfg),
		amd.WithLogger(logger),
		amd.WithTransitionObserver(inspector.Notify),
		amd.WithUncaughtHandler(func(err error) {
			logger.Error().Err(err).Msg("uncaught loader error")
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("/ws", inspector)
	mux.Handle("/", http.FileServer(http.Dir(dir)))

	changed, err := fileHost.Watch()
	if err != nil {
		logger.Warn().Err(err).Msg("live-reload disabled: failed to start watcher")
	} else {
		go func() {
			for url := range changed {
				logger.Info().Str("url", url).Msg("file changed, loader state unaffected until re-fetched")
			}
		}()
	}

	done := make(chan struct{}, 1)
	loader.Require([]string{entry}, func(args []interface{}) {
		logger.Info().Str("entry", entry).Msg("entry module resolved")
		done <- struct{}{}
	}, func(err error) {
		logger.Error().Err(err).Str("entry", entry).Msg("entry module failed")
		done <- struct{}{}
	})

	go func() {
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			logger.Warn().Msg("entry module did not settle within 10s")
		}
	}()

	logger.Info().Str("addr", addr).Str("dir", dir).Msg("amdserve listening")
	fmt.Printf("serving %s on %s\n", dir, addr)
	return http.ListenAndServe(addr, mux)
}
