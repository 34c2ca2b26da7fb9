package commands

import (
	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/server"
)

var (
	serveAddr   string
	serveVector string

	serveCmd = &cobra.Command{
		Use:   "serve <scalar-file>",
		Short: "Serve grids and series over WebSocket",
		Long: `serve exposes the loaded dataset over a WebSocket endpoint at /ws.
Each connection gets its own session; clients send JSON requests of type
"times", "frame" or "series" and receive JSON responses.

Example:
  hydroviz serve Plot_scalar.run1 --vector Plot_vector.run1 --addr :9000`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address (host:port)")
	serveCmd.Flags().StringVar(&serveVector, "vector", "",
		"Vector file for arrow overlays")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if serveAddr == "" {
		serveAddr = cfg.Serve.Addr
	}

	vectorPath := ""
	if serveVector != "" {
		vectorPath = expandPath(serveVector)
	}

	srv := server.NewServer(serveAddr, expandPath(args[0]), vectorPath, cfg, indexCache)
	return srv.Serve()
}
