package cmd

import (
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/config"
	"github.com/Tiliavir/ponto/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the entry and board API over the configured file or sql backend",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr from the config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Backend == config.BackendHTTP {
		return fmt.Errorf("serve needs a local backend (file or sql), not %q", a.cfg.Backend)
	}
	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(a.entries, a.boards, server.Options{
		Log:          a.log,
		AllowOrigins: a.cfg.Server.AllowOrigins,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s backend on http://%s\n", a.cfg.Backend, ln.Addr())
	return server.Serve(cmd.Context(), ln, router, a.log)
}
