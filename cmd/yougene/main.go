package main

import (
	"github.com/frifster/yougene/internal/api"
	"github.com/frifster/yougene/internal/bot"
	"github.com/frifster/yougene/internal/config"
	"github.com/frifster/yougene/internal/constants"
	"github.com/frifster/yougene/internal/logging"
	"github.com/frifster/yougene/internal/service"
	"github.com/frifster/yougene/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		logging.Fatal("Failed to read environment", err, nil)
	}

	cfg := loadConfigOrExit(env.ConfigPath)
	repo := createRepositoryOrExit(env.DBPath, cfg)

	policy := bot.New()
	policy.SafeDistance = cfg.Bot.SafeDistance
	policy.DecisionBound = cfg.Bot.DecisionBound

	store := service.NewStore()
	bus := service.NewBus()
	coord := service.NewCoordinator(store, bus, repo, policy, cfg.Battlefield, cfg.Creatures)

	handler := api.NewSessionHandler(coord, repo)
	socket := ws.NewHandler(coord, bus, repo)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteCreatures, handler.GetCreatures)
		apiRoutes.GET(constants.RouteLeaderboard, handler.GetLeaderboard)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		apiRoutes.POST(constants.RouteSessions, handler.CreateSession)
		apiRoutes.GET(constants.RouteSessionByID, handler.GetSession)
		apiRoutes.POST(constants.RouteSessionJoin, handler.JoinSession)
		apiRoutes.POST(constants.RouteSessionReady, handler.ReadySession)
		apiRoutes.POST(constants.RouteSessionStart, handler.StartSession)
		apiRoutes.POST(constants.RouteSessionTurn, handler.SubmitTurn)
		apiRoutes.POST(constants.RouteSessionLeave, handler.LeaveSession)
		apiRoutes.POST(constants.RouteSessionEnd, handler.EndSession)
		apiRoutes.GET(constants.RouteSessionLog, handler.GetBattleLog)
	}

	router.GET(constants.RouteSessionSocket, socket.Handle)

	addr := env.ResolveAddress(cfg)
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
