// Command guess is a terminal client for the guessing game server.
//
// By default it prints every server reply and reads guesses from stdin.
// With --auto it plays by bisection and stops when the server closes the game.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

var errNoProgress = errors.New("server answers are inconsistent")

func main() {
	cmd := &cli.Command{
		Name:  "guess",
		Usage: "Play the guessing game from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "ws://localhost:8080/ws/guess",
				Usage:   "Game socket URL",
				Sources: cli.EnvVars("GUESS_URL"),
			},
			&cli.BoolFlag{
				Name:  "auto",
				Usage: "Play automatically by bisection",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "How long to wait for each server reply",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := Dial(ctx, cmd.String("url"), cmd.Duration("timeout"))
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer client.Close()

			if cmd.Bool("auto") {
				attempts, err := PlayAuto(client, os.Stdout)
				if err != nil {
					return err
				}
				fmt.Printf("Won in %d guesses\n", attempts)
				return nil
			}
			return PlayInteractive(client, os.Stdin, os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// PlayAuto guesses until the server confirms a win and returns the number of guesses
func PlayAuto(client *Client, out io.Writer) (int, error) {
	welcome, err := client.Next()
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(out, welcome)

	b := NewBisector()
	for attempts := 1; ; attempts++ {
		if b.Exhausted() {
			return attempts - 1, errNoProgress
		}

		guess := b.Next()
		fmt.Fprintf(out, "> %d\n", guess)
		if err := client.Guess(guess); err != nil {
			return attempts - 1, err
		}

		reply, err := client.Next()
		if err != nil {
			return attempts - 1, err
		}
		fmt.Fprintln(out, reply)

		switch v := Classify(reply); v {
		case VerdictCorrect:
			return attempts, nil
		case VerdictTooHigh, VerdictTooLow:
			b.Observe(v)
		default:
			return attempts, fmt.Errorf("unexpected reply: %q", reply)
		}
	}
}

// PlayInteractive relays lines from in to the server until the game ends
func PlayInteractive(client *Client, in io.Reader, out io.Writer) error {
	welcome, err := client.Next()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, welcome)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := client.Send(line); err != nil {
			return err
		}

		reply, err := client.Next()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "Connection closed by server")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply)

		if v := Classify(reply); v == VerdictCorrect || reply == "Request too big" {
			return nil
		}
	}
}
