package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	chatapp "github.com/SoftbearStudios/kiomet/internal/chat/app"
	gate "github.com/SoftbearStudios/kiomet/internal/gate/interfaces"
	lbapp "github.com/SoftbearStudios/kiomet/internal/leaderboard/app"
	lbdomain "github.com/SoftbearStudios/kiomet/internal/leaderboard/domain"
	lbrepo "github.com/SoftbearStudios/kiomet/internal/leaderboard/infra/repo"
	"github.com/SoftbearStudios/kiomet/internal/shared/infrastructure/db"
	sharedmongo "github.com/SoftbearStudios/kiomet/internal/shared/infrastructure/mongo"
	"github.com/SoftbearStudios/kiomet/internal/shared/logs"
	"github.com/SoftbearStudios/kiomet/internal/shared/serverconfig"
	"github.com/SoftbearStudios/kiomet/internal/shared/session"
	transporthttp "github.com/SoftbearStudios/kiomet/internal/shared/transport/http"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
	worldactor "github.com/SoftbearStudios/kiomet/internal/world/actor"
	"github.com/SoftbearStudios/kiomet/internal/world/actors"
	"github.com/SoftbearStudios/kiomet/internal/world/app/port"
	worldmemory "github.com/SoftbearStudios/kiomet/internal/world/infra/persistence/memory"
	worldmongo "github.com/SoftbearStudios/kiomet/internal/world/infra/persistence/mongodb"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
	"github.com/SoftbearStudios/kiomet/internal/world/service"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "kiomet",
		Short:         "Authoritative territory control game server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverconfig.Load(configPath)
			applyFlagOverrides(cmd)
			return run()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file path")
	flags.Int("server-id", 0, "server id, distinguishes servers of the same domain")
	flags.Int("port", 0, "listen port")
	flags.String("domain", "", "domain clients connect to")
	flags.String("ip-address", "", "advertised public ip address")
	flags.String("certificate-path", "", "TLS certificate path")
	flags.String("private-key-path", "", "TLS private key path")
	flags.String("chat-log", "", "file to log all chat to, for moderation")
	flags.String("trace-log", "", "file to log all requests to")
	flags.Int("min-bots", 0, "bot population floor")
	flags.Int("bot-percent", 0, "target percentage of bot players")
	flags.Int("max-players", 0, "concurrent human player cap, 0 for unlimited")

	return cmd
}

// applyFlagOverrides lets command line flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	conf := &serverconfig.Conf

	if v, err := flags.GetInt("server-id"); err == nil && flags.Changed("server-id") {
		conf.Server.ServerID = v
	}
	if v, err := flags.GetInt("port"); err == nil && flags.Changed("port") {
		conf.Server.Port = v
	}
	if v, err := flags.GetString("domain"); err == nil && flags.Changed("domain") {
		conf.Server.Domain = v
	}
	if v, err := flags.GetString("ip-address"); err == nil && flags.Changed("ip-address") {
		conf.Server.IPAddress = v
	}
	if v, err := flags.GetString("certificate-path"); err == nil && flags.Changed("certificate-path") {
		conf.Server.CertificatePath = v
	}
	if v, err := flags.GetString("private-key-path"); err == nil && flags.Changed("private-key-path") {
		conf.Server.PrivateKeyPath = v
	}
	if v, err := flags.GetString("chat-log"); err == nil && flags.Changed("chat-log") {
		conf.Chat.LogFile = v
	}
	if v, err := flags.GetString("trace-log"); err == nil && flags.Changed("trace-log") {
		conf.Log.TraceFile = v
	}
	if v, err := flags.GetInt("min-bots"); err == nil && flags.Changed("min-bots") {
		conf.Game.MinBots = v
	}
	if v, err := flags.GetInt("bot-percent"); err == nil && flags.Changed("bot-percent") {
		conf.Game.BotPercent = v
	}
	if v, err := flags.GetInt("max-players"); err == nil && flags.Changed("max-players") {
		conf.Game.MaxPlayers = v
	}
}

func run() error {
	conf := serverconfig.Conf
	if err := logs.Init("kiomet", conf.Log); err != nil {
		return err
	}
	logger := logx.NewZapLogger(logs.Logger())
	logs.Info("starting", zap.Int("serverId", conf.Server.ServerID), zap.String("domain", conf.Server.Domain))

	sess := session.NewSessMgr()

	// MySQL backs the all-time leaderboard; without it scores are not
	// persisted but the server still runs.
	var lbService *lbapp.Service
	if conf.MySQL.Host != "" {
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return err
		}
		if err := gdb.AutoMigrate(&lbdomain.Record{}); err != nil {
			return err
		}
		lbService = lbapp.NewService(lbrepo.NewRecordRepo(gdb), logger)
	} else {
		logs.Info("mysql not configured, leaderboard persistence disabled")
		lbService = lbapp.NewService(nil, logger)
	}

	// MongoDB backs world snapshots; without it the world lives in
	// memory and dies with the process.
	var worldRepo port.WorldRepository = worldmemory.NewWorldRepository()
	if conf.MongoDB.URI != "" {
		client, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		worldRepo = worldmongo.NewWorldRepository(client.Database(conf.MongoDB.Database))
	} else {
		logs.Info("mongodb not configured, world snapshots held in memory")
	}

	chatService := chatapp.NewService(conf.Chat, sess, logger)
	defer func() {
		_ = chatService.Close()
	}()

	runtime := worldactor.NewRuntime(actors.Options{
		ServerId: conf.Server.ServerID,
		Game: service.Config{
			MinBots:               conf.Game.MinBots,
			BotPercent:            conf.Game.BotPercent,
			LeaderboardMinPlayers: conf.Game.LeaderboardMinPlayers,
			MaxPlayers:            conf.Game.MaxPlayers,
		},
		Repo:          worldRepo,
		SnapshotEvery: time.Duration(conf.Game.SnapshotEveryS) * time.Second,
		Push: func(playerId uint32, update *protocol.Update) {
			if conn, ok := sess.GetConn(int(playerId)); ok {
				conn.Push("game.update", update)
			}
		},
		OnDeath: lbService.Record,
		Logger:  logger,
	}, 0)
	defer runtime.Shutdown()

	gateModule := gate.New(sess, runtime, chatService, lbService, conf.Server, logger)

	// The request access log can be split out to its own rotating file.
	routerLogger := logger
	if conf.Log.TraceFile != "" {
		routerLogger = logx.NewZapLogger(logs.NewFileLogger("trace", conf.Log.TraceFile, conf.Log))
	}

	wsRouter := ws.NewRouter(routerLogger)
	gateModule.WsRegister(wsRouter)
	wsServer := ws.NewServer(wsRouter, logger)

	addr := fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port)
	httpServer := transporthttp.NewHttpServer(addr, nil, logger)
	gateModule.HttpRegister(httpServer.Group())
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if conf.Server.CertificatePath != "" && conf.Server.PrivateKeyPath != "" {
			logs.Info("listening with TLS", zap.String("addr", addr))
			err = httpServer.StartTLS(conf.Server.CertificatePath, conf.Server.PrivateKeyPath)
		} else {
			logs.Info("listening", zap.String("addr", addr))
			err = httpServer.Start()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		logs.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
