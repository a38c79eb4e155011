package rules

import (
	"strings"

	"github.com/notnil/chess"
)

// StartFEN é a posição inicial padrão.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Chess implementa Adapter usando github.com/notnil/chess.
// Não tem campos: é seguro usar o mesmo valor em várias sessões ao mesmo tempo.
type Chess struct{}

var _ Adapter = Chess{}

func (Chess) StartingPosition() string {
	return StartFEN
}

func (Chess) SideToMove(position string) (Color, error) {
	game, err := load(position)
	if err != nil {
		return "", err
	}
	return colorOf(game.Position().Turn()), nil
}

func (Chess) ApplyMove(position string, m Move) (Result, error) {
	game, err := load(position)
	if err != nil {
		return Result{}, err
	}

	from, to := strings.ToLower(m.From), strings.ToLower(m.To)
	promo := strings.ToLower(m.Promotion)
	if !ValidSquare(from) || !ValidSquare(to) || !validPromotion(promo) {
		return Result{Legal: false}, nil
	}
	// Uma posição já encerrada não aceita mais lances.
	if game.Outcome() != chess.NoOutcome {
		return Result{Legal: false}, nil
	}

	mv := findMove(game, from+to+promo)
	if mv == nil && promo == "" {
		// Peão chegando na última fileira sem peça escolhida vira dama.
		mv = findMove(game, from+to+"q")
	}
	if mv == nil {
		return Result{Legal: false}, nil
	}
	if err := game.Move(mv); err != nil {
		return Result{Legal: false}, nil
	}

	res := Result{
		Legal:    true,
		Position: game.FEN(),
	}
	switch game.Outcome() {
	case chess.WhiteWon, chess.BlackWon:
		res.Terminal = true
		res.Reason = ReasonCheckmate
		res.Detail = methodName(game.Method())
		// Quem está com a vez depois do mate é quem perdeu.
		res.Winner = colorOf(game.Position().Turn()).Opponent()
	case chess.Draw:
		res.Terminal = true
		res.Reason = ReasonDraw
		res.Detail = methodName(game.Method())
	default:
		for _, method := range game.EligibleDraws() {
			if method == chess.FiftyMoveRule {
				res.Terminal = true
				res.Reason = ReasonDraw
				res.Detail = methodName(method)
			}
		}
	}
	return res, nil
}

func load(position string) (*chess.Game, error) {
	opt, err := chess.FEN(position)
	if err != nil {
		return nil, &ErrInvalidPosition{Position: position, Err: err}
	}
	return chess.NewGame(opt), nil
}

func findMove(game *chess.Game, uci string) *chess.Move {
	for _, mv := range game.ValidMoves() {
		if mv.String() == uci {
			return mv
		}
	}
	return nil
}

func colorOf(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func methodName(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Stalemate:
		return "stalemate"
	case chess.ThreefoldRepetition:
		return "threefold repetition"
	case chess.FivefoldRepetition:
		return "fivefold repetition"
	case chess.FiftyMoveRule:
		return "fifty move rule"
	case chess.SeventyFiveMoveRule:
		return "seventy five move rule"
	case chess.InsufficientMaterial:
		return "insufficient material"
	}
	return ""
}
