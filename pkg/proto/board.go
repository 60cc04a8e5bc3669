package proto

import (
	"fmt"
	"strings"

	"tictactoe-client/internal/game"
)

// ParseBoard parses the BoardState payload: nine comma-separated cell
// tokens, each "X", "O" or empty. Anything else is malformed.
func ParseBoard(csv string) (game.Board, error) {
	var board game.Board
	tokens := strings.Split(csv, ",")
	if len(tokens) != len(board) {
		return board, fmt.Errorf("%w: board has %d cells, want %d", ErrMalformedMessage, len(tokens), len(board))
	}
	for i, tok := range tokens {
		switch game.Mark(tok) {
		case game.Empty, game.PlayerX, game.PlayerO:
			board[i] = game.Mark(tok)
		default:
			return game.Board{}, fmt.Errorf("%w: invalid cell token %q", ErrMalformedMessage, tok)
		}
	}
	return board, nil
}

// FormatBoard renders a board as the BoardState CSV payload.
func FormatBoard(board game.Board) string {
	tokens := make([]string, len(board))
	for i, mark := range board {
		tokens[i] = string(mark)
	}
	return strings.Join(tokens, ",")
}
