package cluster

import (
	"fmt"
	"strings"

	consul "github.com/hashicorp/consul/api"
	"github.com/hashicorp/go-hclog"
)

// NewConsulClient cria um novo cliente Consul, tentando se conectar a uma lista
// de endereços fornecidos até encontrar um agente saudável com um líder.
func NewConsulClient(addrs string, logger hclog.Logger) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			logger.Warn("consul client creation failed", "node", node, "error", err)
			continue
		}

		// Teste rápido de saúde
		if _, err := client.Status().Leader(); err != nil {
			logger.Warn("consul node did not answer", "node", node, "error", err)
			continue
		}

		logger.Info("connected to consul", "node", node)
		return client, nil
	}

	return nil, fmt.Errorf("no consul node available in %q", addrs)
}
