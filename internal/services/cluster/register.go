package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"
	"github.com/hashicorp/go-hclog"
)

// Registration descreve como este processo se anuncia no Consul.
type Registration struct {
	ServiceName string
	ServicePort int
	HealthPort  int
	// Hostname entra no ID do serviço e na URL do health check. Vazio usa $HOSTNAME ou os.Hostname.
	Hostname string
}

// ServiceID é o ID único desta instância: <nome>-<hostname>.
func (r Registration) ServiceID() string {
	return fmt.Sprintf("%s-%s", r.ServiceName, r.Hostname)
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	return &consul.AgentServiceRegistration{
		ID:   r.ServiceID(),
		Name: r.ServiceName,
		Port: r.ServicePort,
		// Sem Address: o agente usa o IP do contêiner que registrou.
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.Hostname, r.HealthPort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

func resolveHostname(h string) string {
	if h != "" {
		return h
	}
	if h = os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	h, _ = os.Hostname()
	return h
}

// RegisterServiceInConsul registra o serviço e devolve a função que o desregistra.
func RegisterServiceInConsul(client *consul.Client, reg Registration, logger hclog.Logger) (func() error, error) {
	reg.Hostname = resolveHostname(reg.Hostname)
	if reg.HealthPort == 0 {
		reg.HealthPort = reg.ServicePort
	}

	if err := client.Agent().ServiceRegister(reg.agentRegistration()); err != nil {
		return nil, fmt.Errorf("register %s in consul: %w", reg.ServiceName, err)
	}
	logger.Info("service registered in consul", "service", reg.ServiceName, "id", reg.ServiceID())

	deregister := func() error {
		if err := client.Agent().ServiceDeregister(reg.ServiceID()); err != nil {
			return fmt.Errorf("deregister %s from consul: %w", reg.ServiceID(), err)
		}
		logger.Info("service deregistered from consul", "id", reg.ServiceID())
		return nil
	}
	return deregister, nil
}
