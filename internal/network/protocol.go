package network

import "time"

// MaxMessageSize limita o tamanho de um frame recebido.
const MaxMessageSize = 64 * 1024

// Message é um frame recebido de um cliente, ainda não decodificado.
// A decodificação fica com o EventHandler para que um JSON inválido vire
// uma resposta de erro em vez de derrubar a conexão.
type Message struct {
	Data       []byte
	ReceivedAt time.Time
}
