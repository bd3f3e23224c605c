package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/earthmind-network/earthmind-go/client/api/dto"
	cs "github.com/earthmind-network/earthmind-go/client/api/http_api/context_service"
	req "github.com/earthmind-network/earthmind-go/client/api/http_api/requests"
)

func (a *HTTPApp) VotesForMiner(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MinerVotesForm{}
	formDTO := &MinerVotesDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	votes, err := a.node.VotesForMiner(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusNotFound, err)
	}
	return stx.Json(http.StatusOK, votes)
}

func (a *HTTPApp) GetTopTenVoters(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RequestIdForm{}
	formDTO := &RequestIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	topten, err := a.node.GetTopTenVoters(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusNotFound, err)
	}
	return stx.Json(http.StatusOK, topten)
}

func (a *HTTPApp) GetMinersThatCommitAndReveal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RequestIdForm{}
	formDTO := &RequestIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	miners, err := a.node.GetMinersThatCommitAndReveal(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusNotFound, err)
	}
	return stx.Json(http.StatusOK, miners)
}
