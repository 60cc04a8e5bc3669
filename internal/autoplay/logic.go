package autoplay

import (
	"math/rand/v2"

	"tictactoe-client/internal/game"
)

// NextMove determines the automated player's next move based on the
// specified difficulty. Returns -1 when no move is available.
func NextMove(board game.Board, mark game.Mark, difficulty string) int {
	switch difficulty {
	case "easy":
		return easyMove(board)
	case "medium":
		return mediumMove(board, mark)
	case "hard":
		return hardMove(board, mark)
	default:
		return hardMove(board, mark)
	}
}

// easyMove picks a random empty cell.
func easyMove(board game.Board) int {
	var available []int
	for i, cell := range board {
		if cell == game.Empty {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return -1
	}
	return available[rand.IntN(len(available))]
}

// mediumMove wins if it can, blocks if it must, otherwise moves randomly.
func mediumMove(board game.Board, mark game.Mark) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}
	if cell, ok := findWinningMove(board, opponentOf(mark)); ok {
		return cell
	}
	return easyMove(board)
}

// hardMove adds center and corner preference on top of win/block.
func hardMove(board game.Board, mark game.Mark) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}
	if cell, ok := findWinningMove(board, opponentOf(mark)); ok {
		return cell
	}

	const center = 4
	if board[center] == game.Empty {
		return center
	}

	if cell := randomEmpty(board, []int{0, 2, 6, 8}); cell != -1 {
		return cell
	}
	return randomEmpty(board, []int{1, 3, 5, 7})
}

// findWinningMove looks for a line holding two of mark and an empty third
// cell, returning that cell.
func findWinningMove(board game.Board, mark game.Mark) (int, bool) {
	for _, triple := range game.WinningTriples() {
		count, empty := 0, -1
		for _, i := range triple {
			switch board[i] {
			case mark:
				count++
			case game.Empty:
				empty = i
			}
		}
		if count == 2 && empty != -1 {
			return empty, true
		}
	}
	return -1, false
}

func randomEmpty(board game.Board, cells []int) int {
	var available []int
	for _, i := range cells {
		if board[i] == game.Empty {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return -1
	}
	return available[rand.IntN(len(available))]
}

func opponentOf(mark game.Mark) game.Mark {
	if mark == game.PlayerX {
		return game.PlayerO
	}
	return game.PlayerX
}
