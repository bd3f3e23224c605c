package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/earthmind-network/earthmind-go/client/api/dto"
	cs "github.com/earthmind-network/earthmind-go/client/api/http_api/context_service"
	req "github.com/earthmind-network/earthmind-go/client/api/http_api/requests"
)

func (a *HTTPApp) RequestGovernanceDecision(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.GovernanceDecisionForm{}
	formDTO := &GovernanceDecisionDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RequestGovernanceDecision(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) GetRequestByID(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RequestIdForm{}
	formDTO := &RequestIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	governanceRequest, err := a.node.GetRequestByID(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusNotFound, err)
	}
	return stx.Json(http.StatusOK, governanceRequest)
}
