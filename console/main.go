// Command console plays gomoku against the AI in a terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/alfredoyang/gomoku/engine"
)

var errInputClosed = errors.New("input closed")

type console struct {
	game  *engine.Game
	in    *bufio.Scanner
	out   io.Writer
	au    aurora.Aurora
	human engine.Player
}

func main() {
	first := flag.String("first", "", "move first: y or n (asked when empty)")
	noColor := flag.Bool("nocolor", false, "disable ANSI colours")
	depth := flag.Int("depth", engine.DefaultSearchDepth, "AI search depth")
	flag.Parse()

	cfg := engine.DefaultConfig()
	cfg.SearchDepth = *depth
	game, err := engine.NewGame(cfg)
	if err != nil {
		log.Fatalf("[console] %v", err)
	}
	c := newConsole(game, os.Stdin, os.Stdout, !*noColor)
	if err := c.run(*first); err != nil && !errors.Is(err, errInputClosed) {
		log.Fatalf("[console] %v", err)
	}
}

func newConsole(game *engine.Game, in io.Reader, out io.Writer, color bool) *console {
	return &console{
		game: game,
		in:   bufio.NewScanner(in),
		out:  out,
		au:   aurora.NewAurora(color),
	}
}

func (c *console) run(first string) error {
	fmt.Fprintln(c.out, c.au.Bold("Welcome to Gomoku!"))
	humanFirst, err := c.askFirst(first)
	if err != nil {
		return err
	}
	c.human = engine.PlayerWhite
	if humanFirst {
		c.human = engine.PlayerBlack
	}
	c.game.SetAIPlayer(c.human.Other())
	fmt.Fprintf(c.out, "You are %s (%s), AI is %s (%s)\n",
		c.human, c.glyph(engine.CellFromPlayer(c.human)),
		c.human.Other(), c.glyph(engine.CellFromPlayer(c.human.Other())))
	fmt.Fprintln(c.out, "Enter moves as 'row col' (e.g., '7 7').")

	for {
		if c.game.CurrentPlayer() == c.human {
			c.printBoard()
			if err := c.humanTurn(); err != nil {
				return err
			}
		} else if err := c.aiTurn(); err != nil {
			return err
		}
		if c.announceResult() {
			return nil
		}
		c.game.SwitchPlayer()
	}
}

func (c *console) askFirst(first string) (bool, error) {
	for first == "" {
		fmt.Fprintln(c.out, "Do you want to move first? (y/n)")
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		first = line
	}
	return strings.EqualFold(strings.TrimSpace(first), "y"), nil
}

// humanTurn re-prompts until a legal move has been played.
func (c *console) humanTurn() error {
	last := c.game.BoardSize() - 1
	for {
		fmt.Fprintf(c.out, "Your turn (%s). Enter row and column (0-%d):\n", c.human, last)
		line, err := c.readLine()
		if err != nil {
			return err
		}
		move, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(c.out, c.au.Red("Invalid input. Please enter two numbers (row col)."))
			continue
		}
		if err := c.game.MakeMove(move.Row, move.Col); err != nil {
			fmt.Fprintln(c.out, c.au.Red("Invalid move: "+err.Error()))
			continue
		}
		return nil
	}
}

func (c *console) aiTurn() error {
	fmt.Fprintf(c.out, "AI (%s) is thinking...\n", c.game.AIPlayer())
	move, err := c.game.AIMove()
	if err != nil {
		return fmt.Errorf("ai move: %w", err)
	}
	fmt.Fprintf(c.out, "AI moves to (%d, %d)\n", move.Row, move.Col)
	if err := c.game.MakeMove(move.Row, move.Col); err != nil {
		return fmt.Errorf("ai made an invalid move: %w", err)
	}
	return nil
}

func (c *console) announceResult() bool {
	outcome := c.game.Outcome()
	if !outcome.IsOver() {
		return false
	}
	c.printBoard()
	switch {
	case outcome.Kind == engine.Draw:
		fmt.Fprintln(c.out, c.au.Yellow("Game is a draw!"))
	case outcome.Winner == c.human:
		fmt.Fprintln(c.out, c.au.Green(fmt.Sprintf("You win (%s)!", c.human)))
	default:
		fmt.Fprintln(c.out, c.au.Red(fmt.Sprintf("AI wins (%s)!", outcome.Winner)))
	}
	return true
}

func (c *console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return c.in.Text(), nil
}

func parseMove(line string) (engine.Move, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return engine.Move{}, fmt.Errorf("expected two numbers, got %d fields", len(fields))
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return engine.Move{}, err
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return engine.Move{}, err
	}
	return engine.NewMove(row, col), nil
}

func (c *console) printBoard() {
	fmt.Fprint(c.out, c.renderBoard())
}

// renderBoard prints the same grid as engine.Board.String, with the
// stones coloured and the last move highlighted.
func (c *console) renderBoard() string {
	size := c.game.BoardSize()
	cells := c.game.Board()
	last, hasLast := c.game.LastMove()
	var b strings.Builder
	b.WriteString("   ")
	for col := 0; col < size; col++ {
		fmt.Fprintf(&b, "%2d ", col)
	}
	b.WriteString("\n")
	for row := 0; row < size; row++ {
		fmt.Fprintf(&b, "%2d ", row)
		for col := 0; col < size; col++ {
			cell := engine.Cell(cells[row*size+col])
			glyph := c.glyph(cell)
			if hasLast && last.Row == row && last.Col == col {
				glyph = c.au.Bold(glyph).String()
			}
			b.WriteString(glyph)
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *console) glyph(cell engine.Cell) string {
	switch cell {
	case engine.CellBlack:
		return c.au.Cyan(cell.Glyph()).String()
	case engine.CellWhite:
		return c.au.Magenta(cell.Glyph()).String()
	default:
		return cell.Glyph()
	}
}
