package router

import (
	"github.com/labstack/echo/v4"

	"github.com/earthmind-network/earthmind-go/client/api/http_api/handlers"
	"github.com/earthmind-network/earthmind-go/client/services/node"
)

func SetRouter(e *echo.Echo, node node.NodeService) {
	h := handlers.NewHTTPApp(node)

	e.POST("/registerMiner", h.RegisterMiner)
	e.POST("/registerValidator", h.RegisterValidator)
	e.POST("/registerProtocol", h.RegisterProtocol)
	e.GET("/isMinerRegistered", h.IsMinerRegistered)
	e.GET("/isValidatorRegistered", h.IsValidatorRegistered)
	e.GET("/isAccountRegistered", h.IsAccountRegistered)

	e.POST("/requestGovernanceDecision", h.RequestGovernanceDecision)
	e.GET("/getRequestById", h.GetRequestByID)

	e.POST("/hashMinerAnswer", h.HashMinerAnswer)
	e.POST("/hashValidatorAnswer", h.HashValidatorAnswer)

	e.POST("/commitByMiner", h.CommitByMiner)
	e.POST("/commitByValidator", h.CommitByValidator)
	e.POST("/revealByMiner", h.RevealByMiner)
	e.POST("/revealByValidator", h.RevealByValidator)

	e.GET("/votesForMiner", h.VotesForMiner)
	e.GET("/getTopTenVoters", h.GetTopTenVoters)
	e.GET("/getMinersThatCommitAndReveal", h.GetMinersThatCommitAndReveal)
}
