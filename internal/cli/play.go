// Game commands: an interactive round and a one-shot guess.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlelog/internal/game"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play today's puzzle interactively",
		Long: `Play reads guesses from standard input, one per line, until today's
puzzle is solved or input ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			session, err := a.newSession(backend)
			if err != nil {
				return err
			}
			return a.play(session, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) play(session *game.Session, in io.Reader, out io.Writer) error {
	st := session.Status()
	if st.State == game.Solved.String() {
		fmt.Fprintf(out, "Already solved %s. Come back tomorrow.\n", st.Date)
		return nil
	}

	bounds := session.Range()
	if !a.flags.jsonMode {
		fmt.Fprintf(out, "Daily puzzle for %s. Guess a number between %d and %d.\n", st.Date, bounds.Min, bounds.Max)
	}

	scanner := bufio.NewScanner(in)
	for {
		if !a.flags.jsonMode {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			if !a.flags.jsonMode {
				fmt.Fprintln(out)
			}
			return scanner.Err()
		}

		res, err := session.Submit(scanner.Text())
		switch {
		case errors.Is(err, types.ErrInvalidInput):
			fmt.Fprintf(out, "%v\n", err)
			continue
		case errors.Is(err, types.ErrAlreadySolvedToday):
			fmt.Fprintln(out, "Already solved today. Come back tomorrow.")
			return nil
		case err != nil:
			return err
		}

		if err := a.printResult(out, res); err != nil {
			return err
		}
		if res.Correct {
			return nil
		}
	}
}

func newGuessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guess <n>",
		Short: "Submit one guess for today's puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			session, err := a.newSession(backend)
			if err != nil {
				return err
			}
			res, err := session.Submit(args[0])
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) printResult(out io.Writer, res game.Result) error {
	if a.flags.jsonMode {
		return printJSON(out, res)
	}
	if !res.Correct {
		_, err := fmt.Fprintln(out, "Wrong! Try again.")
		return err
	}
	fmt.Fprintf(out, "Correct! Solved %s in %d attempt(s), %ds. Score: %d\n", res.Date, res.Attempts, res.TimeTaken, res.Score)
	if res.NewHighScore {
		fmt.Fprintln(out, "New high score!")
	}
	if res.Sync != nil {
		fmt.Fprintf(out, "%d records waiting to sync (batch %s).\n", res.Sync.Unsynced, res.Sync.BatchID)
	}
	return nil
}
