package handlers

import (
	"github.com/earthmind-network/earthmind-go/client/services/node"
)

type HTTPApp struct {
	node node.NodeService
}

func NewHTTPApp(node node.NodeService) *HTTPApp {
	return &HTTPApp{
		node: node,
	}
}
