package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/transport/ws"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagWSAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sokoban SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the level menu. The SSH user
name is the player name, and every player keeps a profile on the server.
Level records are shared by all players.

With --ws (or server.ws_address in the config) a WebSocket server runs
alongside it: GET /levels lists the levels and GET /play?level=<id>&player=<name>
opens a game session driven by JSON messages.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.sokoban/host_key

Examples:
  sokoban serve                           # Listen on :23235 with auto-generated key
  sokoban serve --ssh :2222               # Listen on port 2222
  sokoban serve --host-key ./my_host_key  # Use specific host key
  sokoban serve --ws :8080                # Also serve WebSocket play

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23235)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config, 30m)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket server address (disabled if empty)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	exitOnError("loading config", err)

	if cmd.Flags().Changed("ssh") {
		cfg.Server.SSHAddress = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flagWSAddr != "" {
		cfg.Server.WSAddress = flagWSAddr
	}
	exitOnError("checking config", cfg.Validate())

	env, err := newEnvironment(cfg, os.Stderr)
	exitOnError("starting", err)
	defer env.Close()

	sshCfg := tui.DefaultSSHServerConfig()
	if cfg.Server.SSHAddress != "" {
		sshCfg.Address = cfg.Server.SSHAddress
	}
	if cfg.Server.HostKeyPath != "" {
		sshCfg.HostKeyPath = config.ExpandPath(cfg.Server.HostKeyPath)
	}
	if cfg.Server.IdleTimeout > 0 {
		sshCfg.IdleTimeout = cfg.Server.IdleTimeout
	}
	sshCfg.TickRate = cfg.TUI.TickRate

	profiles := progress.NewProfiles(cfg.DataPath(profilesDir), env.policy)
	recorder := env.recorder()

	sshServer, err := tui.NewSSHServer(sshCfg, env.services(), profiles, env.logger)
	exitOnError("creating server", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting sokoban SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(sshCfg.Address))
	if cfg.Server.WSAddress != "" {
		fmt.Printf("WebSocket play on ws://localhost:%s/play\n", port(cfg.Server.WSAddress))
	}
	fmt.Println("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sshServer.ListenAndServe(ctx)
	})
	if cfg.Server.WSAddress != "" {
		wsServer := ws.NewServer(env.levels, env.records, profiles, recorder, env.logger)
		g.Go(func() error {
			return wsServer.ListenAndServe(ctx, cfg.Server.WSAddress)
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// port returns the port part of a host:port address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
