// Package rules expõe o motor de regras de xadrez através de uma interface mínima.
// O coordenador de sessões nunca implementa regras; ele só consulta o Adapter e
// repassa os veredictos para os jogadores.
package rules

import (
	"fmt"
	"strings"
)

// Color é a cor de um assento dentro da sessão.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent retorna a outra cor.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Tipos de término reportados pelo motor.
const (
	ReasonCheckmate = "checkmate"
	ReasonDraw      = "draw"
)

// Move é um lance proposto: casa de origem, casa de destino e promoção opcional (q, r, b, n).
type Move struct {
	From      string
	To        string
	Promotion string
}

func (m Move) String() string {
	return m.From + m.To + m.Promotion
}

// Result é o veredicto do motor para um lance.
// Quando Legal é false os demais campos ficam vazios e a posição original continua valendo.
type Result struct {
	Legal    bool
	Position string
	Terminal bool
	// Reason é ReasonCheckmate ou ReasonDraw quando Terminal.
	Reason string
	// Detail descreve o método de término (ex: "stalemate", "insufficient material").
	Detail string
	// Winner só é preenchido em xeque-mate.
	Winner Color
}

// Outcome formata o resultado final do jeito que os clientes exibem.
func (r Result) Outcome() string {
	if !r.Terminal {
		return ""
	}
	if r.Reason == ReasonCheckmate && r.Winner != "" {
		name := string(r.Winner)
		return strings.ToUpper(name[:1]) + name[1:] + " wins!"
	}
	return "Draw!"
}

// Adapter é a capacidade externa de regras. Implementações não guardam estado
// mutável compartilhado: cada chamada trabalha só sobre a posição recebida.
type Adapter interface {
	// StartingPosition retorna a posição inicial codificada.
	StartingPosition() string
	// SideToMove informa de quem é a vez na posição dada.
	SideToMove(position string) (Color, error)
	// ApplyMove avalia o lance. Um lance ilegal não é erro, é Result{Legal: false}.
	// Erro só é retornado quando a própria posição não pode ser interpretada.
	ApplyMove(position string, m Move) (Result, error)
}

// ValidSquare confere se s é uma casa no formato "e4".
func ValidSquare(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

func validPromotion(p string) bool {
	switch p {
	case "", "q", "r", "b", "n":
		return true
	}
	return false
}

// ErrInvalidPosition indica uma posição que o motor não consegue decodificar.
type ErrInvalidPosition struct {
	Position string
	Err      error
}

func (e *ErrInvalidPosition) Error() string {
	return fmt.Sprintf("invalid position %q: %v", e.Position, e.Err)
}

func (e *ErrInvalidPosition) Unwrap() error { return e.Err }
