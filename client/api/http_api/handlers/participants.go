package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/earthmind-network/earthmind-go/client/api/dto"
	cs "github.com/earthmind-network/earthmind-go/client/api/http_api/context_service"
	req "github.com/earthmind-network/earthmind-go/client/api/http_api/requests"
)

func (a *HTTPApp) RegisterMiner(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RegisterParticipantForm{}
	formDTO := &RegisterParticipantDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RegisterMiner(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) RegisterValidator(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RegisterParticipantForm{}
	formDTO := &RegisterParticipantDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RegisterValidator(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) RegisterProtocol(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RegisterParticipantForm{}
	formDTO := &RegisterParticipantDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RegisterProtocol(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) IsMinerRegistered(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.AccountIdForm{}
	formDTO := &AccountIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	return stx.Json(http.StatusOK, a.node.IsMinerRegistered(formDTO))
}

func (a *HTTPApp) IsValidatorRegistered(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.AccountIdForm{}
	formDTO := &AccountIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	return stx.Json(http.StatusOK, a.node.IsValidatorRegistered(formDTO))
}

func (a *HTTPApp) IsAccountRegistered(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.AccountIdForm{}
	formDTO := &AccountIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	return stx.Json(http.StatusOK, a.node.IsAccountRegistered(formDTO))
}
