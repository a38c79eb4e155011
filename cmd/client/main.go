// xadrez/cmd/client/main.go
package main

import (
	"bufio"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/notnil/chess"

	"xadrez/internal/services/cluster"
	"xadrez/internal/session/message"
)

type clientConfig struct {
	// Lista de servidores tentados em ordem. Ex: SERVER_ADDRESSES="192.168.1.10:8080,192.168.1.11:8080"
	ServerAddresses []string `env:"SERVER_ADDRESSES" envSeparator:"," envDefault:"localhost:8080"`
	// Se definido, o servidor é descoberto pelo Consul antes da lista fixa.
	ConsulAddr  string `env:"CONSUL_HTTP_ADDR"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"xadrez-session"`
}

// clientState guarda o que o jogador aprendeu pelo protocolo.
type clientState struct {
	mu     sync.Mutex
	gameID string
	color  string
}

func (s *clientState) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var cfg clientConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	conn := connect(candidateAddresses(cfg))
	if conn == nil {
		log.Fatalf("Não foi possível conectar a nenhum servidor disponível. Encerrando.")
	}
	defer conn.Close()

	state := &clientState{}
	done := make(chan struct{})
	go readLoop(conn, state, done)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		printHelp()
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" {
				interrupt <- os.Interrupt
				return
			}
			if line == "help" {
				printHelp()
				continue
			}
			msg, err := parseCommand(line, state.GameID())
			if err != nil {
				fmt.Println(err)
				continue
			}
			if msg.Type == message.TypeJoin {
				state.mu.Lock()
				state.gameID = msg.GameID
				state.mu.Unlock()
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("Erro ao enviar mensagem: %v", err)
			}
		}
	}()

	select {
	case <-done:
		log.Println("Desconectado do servidor.")
	case <-interrupt:
		log.Println("Interrupção recebida, fechando conexão.")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

// candidateAddresses coloca o endereço descoberto pelo Consul (se houver) antes da lista fixa.
func candidateAddresses(cfg clientConfig) []string {
	addrs := cfg.ServerAddresses
	if cfg.ConsulAddr == "" {
		return addrs
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: "client", Level: hclog.Warn})
	client, err := cluster.NewConsulClient(cfg.ConsulAddr, logger)
	if err != nil {
		log.Printf("AVISO: Consul indisponível: %v", err)
		return addrs
	}
	addr, err := cluster.DiscoverAnyHealthy(client, cfg.ServiceName)
	if err != nil {
		log.Printf("AVISO: %v", err)
		return addrs
	}
	return append([]string{addr}, addrs...)
}

// connect tenta cada endereço da lista até ter sucesso.
func connect(addrs []string) *websocket.Conn {
	for _, addr := range addrs {
		u := url.URL{Scheme: "ws", Host: strings.TrimSpace(addr), Path: "/ws"}
		log.Printf("Tentando conectar em %s", u.String())

		conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err == nil {
			log.Println("Conexão WebSocket bem-sucedida!")
			return conn
		}
		log.Printf("AVISO: Falha ao conectar a %s: %v", addr, err)
		if resp != nil {
			log.Printf("AVISO: Status da resposta recebida: %s", resp.Status)
		}
	}
	return nil
}

// parseCommand traduz uma linha digitada para uma mensagem do protocolo.
// Lances aceitam "e2e4", "e2 e4" ou "e7e8q".
func parseCommand(line, gameID string) (message.Inbound, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return message.Inbound{}, fmt.Errorf("comando vazio")
	}

	switch fields[0] {
	case "create", "c":
		return message.Inbound{Type: message.TypeCreate}, nil

	case "join", "j":
		if len(fields) != 2 {
			return message.Inbound{}, fmt.Errorf("uso: join <gameId>")
		}
		return message.Inbound{Type: message.TypeJoin, GameID: fields[1]}, nil

	case "move", "m":
		if gameID == "" {
			return message.Inbound{}, fmt.Errorf("você não está em nenhuma partida")
		}
		uci := strings.Join(fields[1:], "")
		if len(uci) != 4 && len(uci) != 5 {
			return message.Inbound{}, fmt.Errorf("uso: move e2e4 (ou e7e8q para promover)")
		}
		m := &message.Move{From: uci[:2], To: uci[2:4], Promotion: uci[4:]}
		return message.Inbound{Type: message.TypeMove, GameID: gameID, Move: m}, nil
	}
	return message.Inbound{}, fmt.Errorf("comando desconhecido: %s (digite help)", fields[0])
}

func readLoop(conn *websocket.Conn, state *clientState, done chan struct{}) {
	defer close(done)
	for {
		var msg message.Outbound
		err := conn.ReadJSON(&msg)
		if err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Println("Conexão fechada normalmente.")
			} else {
				log.Printf("Erro de leitura: %v", err)
			}
			return
		}
		printServerMessage(state, msg)
	}
}

func printServerMessage(state *clientState, msg message.Outbound) {
	state.mu.Lock()
	defer state.mu.Unlock()

	switch msg.Type {
	case message.TypeGameCreated:
		state.gameID = msg.GameID
		fmt.Printf("\nPartida criada! ID: %s\nCompartilhe o ID com seu oponente e aguarde...\n", msg.GameID)
	case message.TypeStart:
		state.color = msg.Color
		fmt.Printf("\nA partida começou! Você joga de %s.\n", msg.Color)
		printBoard(msg.FEN)
	case message.TypeMove:
		if msg.Move != nil {
			fmt.Printf("\nLance: %s-%s\n", msg.Move.From, msg.Move.To)
		}
		printBoard(msg.FEN)
	case message.TypeGameOver:
		fmt.Printf("\nFim de jogo: %s\n", msg.Result)
	case message.TypeError:
		fmt.Printf("\nErro: %s\n", msg.Message)
	case message.TypeOpponentDisconnected:
		state.gameID = ""
		fmt.Println("\nO oponente desconectou. Partida encerrada.")
	default:
		fmt.Printf("\nInfo (%s)\n", msg.Type)
	}
	time.Sleep(50 * time.Millisecond)
	fmt.Print("> ")
}

func printBoard(fen string) {
	opt, err := chess.FEN(fen)
	if err != nil {
		fmt.Printf("Posição: %s\n", fen)
		return
	}
	game := chess.NewGame(opt)
	fmt.Println(game.Position().Board().Draw())
	turn := "brancas"
	if game.Position().Turn() == chess.Black {
		turn = "pretas"
	}
	fmt.Printf("Vez das %s.\n", turn)
}

func printHelp() {
	fmt.Print(`
--- Xadrez ---
create            cria uma partida
join <gameId>     entra em uma partida
move e2e4         joga um lance (e7e8q promove)
help              mostra esta ajuda
quit              sai
--------------
> `)
}
