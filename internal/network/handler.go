package network

// EventHandler é a interface que conecta a lógica da rede com a lógica do jogo.
// O Hub chama estes métodos a partir de uma única goroutine, um evento por vez.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente se conecta com sucesso.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando um cliente se desconecta, inclusive por falha de escrita.
	OnDisconnect(c *Client)

	// OnMessage é chamado quando um frame de texto é recebido de um cliente.
	OnMessage(c *Client, msg Message)
}
