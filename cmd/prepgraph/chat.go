package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// chatLoop runs an interactive question-answer session until the input is
// exhausted or the user types exit/quit. History accumulates inside the
// answer function, so follow-up questions see earlier turns.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, answer func(context.Context, string) (string, error)) error {
	fmt.Fprintln(out, "Ask questions about your stored material. Type 'exit' to quit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			break
		}

		response, err := answer(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", response)
	}
	return scanner.Err()
}
