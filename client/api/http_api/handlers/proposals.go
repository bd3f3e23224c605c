package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/earthmind-network/earthmind-go/client/api/dto"
	cs "github.com/earthmind-network/earthmind-go/client/api/http_api/context_service"
	req "github.com/earthmind-network/earthmind-go/client/api/http_api/requests"
)

func (a *HTTPApp) HashMinerAnswer(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.HashMinerAnswerForm{}
	formDTO := &HashMinerAnswerDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	hash, err := a.node.HashMinerAnswer(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, hash)
}

func (a *HTTPApp) HashValidatorAnswer(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.HashValidatorAnswerForm{}
	formDTO := &HashValidatorAnswerDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	hash, err := a.node.HashValidatorAnswer(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, hash)
}

func (a *HTTPApp) CommitByMiner(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.CommitForm{}
	formDTO := &CommitDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.CommitByMiner(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) CommitByValidator(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.CommitForm{}
	formDTO := &CommitDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.CommitByValidator(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) RevealByMiner(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RevealMinerForm{}
	formDTO := &RevealMinerDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RevealByMiner(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) RevealByValidator(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.RevealValidatorForm{}
	formDTO := &RevealValidatorDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.node.RevealByValidator(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	return stx.Json(http.StatusOK, result)
}
