package main

import (
	"github.com/earthmind-network/earthmind-go/contract"
)

type StringResponse struct {
	ErrorMessage string `json:"error_message,omitempty"`
	Result       string `json:"result"`
}

type BoolResponse struct {
	ErrorMessage string `json:"error_message,omitempty"`
	Result       bool   `json:"result"`
}

type VotesResponse struct {
	ErrorMessage string `json:"error_message,omitempty"`
	Result       uint64 `json:"result"`
}

type AccountListResponse struct {
	ErrorMessage string   `json:"error_message,omitempty"`
	Result       []string `json:"result"`
}

type RequestResponse struct {
	ErrorMessage string            `json:"error_message,omitempty"`
	Result       *contract.Request `json:"result"`
}
