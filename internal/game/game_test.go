package game

import (
	"errors"
	"testing"
)

func TestCheckWinner(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  Mark
	}{
		{
			name:  "No winner - empty board",
			board: Board{},
			want:  Empty,
		},
		{
			name:  "No winner - partial board",
			board: Board{PlayerX, Empty, Empty, Empty, PlayerO, Empty, Empty, Empty, Empty},
			want:  Empty,
		},
		{
			name:  "X wins - top row",
			board: Board{PlayerX, PlayerX, PlayerX, Empty, PlayerO, Empty, Empty, Empty, PlayerO},
			want:  PlayerX,
		},
		{
			name:  "O wins - middle column",
			board: Board{PlayerX, PlayerO, Empty, PlayerX, PlayerO, Empty, Empty, PlayerO, Empty},
			want:  PlayerO,
		},
		{
			name:  "X wins - main diagonal",
			board: Board{PlayerX, Empty, Empty, Empty, PlayerX, Empty, Empty, Empty, PlayerX},
			want:  PlayerX,
		},
		{
			name:  "O wins - anti-diagonal",
			board: Board{Empty, Empty, PlayerO, Empty, PlayerO, Empty, PlayerO, Empty, Empty},
			want:  PlayerO,
		},
		{
			name:  "No winner - full board (draw)",
			board: Board{PlayerX, PlayerO, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO, PlayerX, PlayerX},
			want:  Empty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckWinner(tt.board); got != tt.want {
				t.Errorf("CheckWinner() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckWinnerAllTriples(t *testing.T) {
	// Every one of the eight lines, alone on the board, must be a win,
	// for either mark.
	for _, mark := range []Mark{PlayerX, PlayerO} {
		for _, triple := range WinningTriples() {
			var board Board
			for _, i := range triple {
				board[i] = mark
			}
			if got := CheckWinner(board); got != mark {
				t.Errorf("CheckWinner(triple %v as %v) got = %v, want %v", triple, mark, got, mark)
			}
		}
	}
}

func TestApplyLocalMove(t *testing.T) {
	t.Run("alternates marks and rejects occupied cells", func(t *testing.T) {
		e := NewEngine()

		if ended, err := e.ApplyLocalMove(0); err != nil || ended {
			t.Fatalf("first move: ended=%v err=%v", ended, err)
		}
		if e.Cell(0) != PlayerX {
			t.Errorf("cell 0 = %v, want X", e.Cell(0))
		}
		if e.CurrentMark() != PlayerO {
			t.Errorf("current mark = %v, want O after X moved", e.CurrentMark())
		}

		if _, err := e.ApplyLocalMove(0); !errors.Is(err, ErrCellTaken) {
			t.Errorf("move on occupied cell: err = %v, want ErrCellTaken", err)
		}
		// A rejected move must not hand the turn back to the same mark.
		if e.CurrentMark() != PlayerO {
			t.Errorf("current mark changed on rejected move: %v", e.CurrentMark())
		}

		if _, err := e.ApplyLocalMove(4); err != nil {
			t.Fatalf("second move: %v", err)
		}
		if e.Cell(4) != PlayerO {
			t.Errorf("cell 4 = %v, want O", e.Cell(4))
		}
	})

	t.Run("rejects out of range indices", func(t *testing.T) {
		e := NewEngine()
		for _, i := range []int{-1, 9, 100} {
			if _, err := e.ApplyLocalMove(i); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("ApplyLocalMove(%d) err = %v, want ErrOutOfRange", i, err)
			}
		}
	})

	t.Run("win ends the game and blocks further moves", func(t *testing.T) {
		e := NewEngine()
		// X: 0, 1, 2 wins; O: 3, 4.
		moves := []int{0, 3, 1, 4}
		for _, i := range moves {
			if ended, err := e.ApplyLocalMove(i); err != nil || ended {
				t.Fatalf("move %d: ended=%v err=%v", i, ended, err)
			}
		}
		ended, err := e.ApplyLocalMove(2)
		if err != nil {
			t.Fatalf("winning move: %v", err)
		}
		if !ended {
			t.Error("winning move did not report ended")
		}
		if e.Winner() != PlayerX {
			t.Errorf("winner = %v, want X", e.Winner())
		}
		if _, err := e.ApplyLocalMove(5); !errors.Is(err, ErrFinished) {
			t.Errorf("move after win: err = %v, want ErrFinished", err)
		}
	})

	t.Run("full board without winner reports ended", func(t *testing.T) {
		e := NewEngine()
		// X O X / X O O / O X X - a draw sequence.
		for _, i := range []int{0, 1, 2, 4, 3, 5, 7, 6} {
			if ended, err := e.ApplyLocalMove(i); err != nil || ended {
				t.Fatalf("move %d: ended=%v err=%v", i, ended, err)
			}
		}
		ended, err := e.ApplyLocalMove(8)
		if err != nil {
			t.Fatalf("final move: %v", err)
		}
		if !ended {
			t.Error("draw did not report ended")
		}
		if e.Winner() != Empty {
			t.Errorf("winner = %v, want none on draw", e.Winner())
		}
	})
}

func TestReset(t *testing.T) {
	e := NewEngine()
	e.ApplyLocalMove(0)
	e.ApplyLocalMove(1)

	e.Reset()
	if e.Board() != (Board{}) {
		t.Errorf("board after reset = %v, want empty", e.Board())
	}
	if e.CurrentMark() != PlayerX {
		t.Errorf("current mark after reset = %v, want X", e.CurrentMark())
	}
	if e.Ended() {
		t.Error("ended flag set after reset")
	}

	// Idempotent.
	e.Reset()
	if e.Board() != (Board{}) || e.CurrentMark() != PlayerX || e.Ended() {
		t.Error("second reset changed state")
	}
}

func TestOverwriteFromAuthoritative(t *testing.T) {
	e := NewEngine()
	e.ApplyLocalMove(8) // local optimistic state to be clobbered

	authoritative := Board{PlayerX, Empty, Empty, Empty, PlayerO, Empty, Empty, Empty, Empty}
	e.OverwriteFromAuthoritative(authoritative)
	if e.Board() != authoritative {
		t.Errorf("board = %v, want %v", e.Board(), authoritative)
	}
	if e.Cell(8) != Empty {
		t.Error("overwrite merged instead of replacing: stale cell survived")
	}

	// Applying the same snapshot twice is a no-op after the first.
	e.OverwriteFromAuthoritative(authoritative)
	if e.Board() != authoritative {
		t.Errorf("board after duplicate overwrite = %v, want %v", e.Board(), authoritative)
	}
}
