package cluster

import (
	"fmt"
	"math/rand"

	consul "github.com/hashicorp/consul/api"
)

// DiscoverAnyHealthy escolhe ao acaso uma instância saudável de serviceName
// e retorna seu endereço host:porta.
func DiscoverAnyHealthy(client *consul.Client, serviceName string) (string, error) {
	services, _, err := client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("query healthy %s instances: %w", serviceName, err)
	}
	if len(services) == 0 {
		return "", fmt.Errorf("no healthy instance of %s", serviceName)
	}
	return entryAddress(services[rand.Intn(len(services))]), nil
}

func entryAddress(s *consul.ServiceEntry) string {
	addr := s.Service.Address
	if addr == "" {
		addr = s.Node.Address
	}
	return fmt.Sprintf("%s:%d", addr, s.Service.Port)
}
