package game

import "errors"

// Mark represents the mark of a player (X, O) or an empty cell.
type Mark string

const (
	Empty   Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

// Board is the flat nine-cell tic-tac-toe board, row-major.
type Board [9]Mark

var (
	ErrOutOfRange = errors.New("cell index out of range")
	ErrCellTaken  = errors.New("cell already occupied")
	ErrFinished   = errors.New("game already finished")
)

// winningTriples are the eight winning lines, scanned in this fixed order.
// The order only affects which line is reported, not whether a win occurred.
var winningTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Engine is the pure turn-based board logic: move legality, turn
// switching, win and draw detection. It performs no I/O and holds no
// authority; the local board is a mirror of server-declared state.
type Engine struct {
	board   Board
	current Mark
	ended   bool
	winner  Mark
}

// NewEngine creates an engine with an empty board and X to move.
func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset clears the board, sets the current mark to X and clears the ended
// flag. Idempotent.
func (e *Engine) Reset() {
	e.board = Board{}
	e.current = PlayerX
	e.ended = false
	e.winner = Empty
}

// ApplyLocalMove places the current mark on the given cell. It reports
// whether the move ended the game (win or draw). Used for optimistic local
// display only; authoritative state always arrives from the server.
func (e *Engine) ApplyLocalMove(index int) (ended bool, err error) {
	if index < 0 || index >= len(e.board) {
		return false, ErrOutOfRange
	}
	if e.ended {
		return false, ErrFinished
	}
	if e.board[index] != Empty {
		return false, ErrCellTaken
	}

	e.board[index] = e.current
	if winner := CheckWinner(e.board); winner != Empty {
		e.ended = true
		e.winner = winner
		return true, nil
	}
	if IsBoardFull(e.board) {
		e.ended = true
		return true, nil
	}
	e.switchMark()
	return false, nil
}

// OverwriteFromAuthoritative replaces the entire board from a
// server-declared snapshot. It never merges cell by cell and does not
// infer the current mark or the ended flag; those arrive as separate
// explicit messages.
func (e *Engine) OverwriteFromAuthoritative(board Board) {
	e.board = board
}

// Board returns a copy of the current board.
func (e *Engine) Board() Board {
	return e.board
}

// CurrentMark returns the mark that moves next in the local mirror.
func (e *Engine) CurrentMark() Mark {
	return e.current
}

// Ended reports whether the local mirror considers the game over.
func (e *Engine) Ended() bool {
	return e.ended
}

// Winner returns the winning mark, or Empty when there is none.
func (e *Engine) Winner() Mark {
	return e.winner
}

// Cell returns the mark at the given index, or Empty when out of range.
func (e *Engine) Cell(index int) Mark {
	if index < 0 || index >= len(e.board) {
		return Empty
	}
	return e.board[index]
}

func (e *Engine) switchMark() {
	if e.current == PlayerX {
		e.current = PlayerO
	} else {
		e.current = PlayerX
	}
}

// CheckWinner scans the eight winning triples in fixed order and returns
// the mark holding the first completed triple, or Empty.
func CheckWinner(board Board) Mark {
	for _, triple := range winningTriples {
		a, b, c := triple[0], triple[1], triple[2]
		if board[a] != Empty && board[a] == board[b] && board[a] == board[c] {
			return board[a]
		}
	}
	return Empty
}

// IsBoardFull reports whether no empty cells remain.
func IsBoardFull(board Board) bool {
	for _, mark := range board {
		if mark == Empty {
			return false
		}
	}
	return true
}

// WinningTriples exposes the fixed winning lines for strategy code.
func WinningTriples() [8][3]int {
	return winningTriples
}
