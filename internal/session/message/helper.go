package message

// Sender define a interface para qualquer tipo que pode receber uma mensagem.
// Isso nos permite desacoplar o pacote `message` de implementações concretas como `network.Client`.
type Sender interface {
	Send(v any) error
}

// SendError envia apenas uma mensagem de erro para o cliente.
func SendError(sender Sender, text string) error {
	return sender.Send(Error(text))
}
