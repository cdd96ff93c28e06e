package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	if email := a.currentEmail(); email != "" {
		return fmt.Sprintf("(%s) ", email)
	}
	return ""
}

// Root prints the greeting and hands control to the REPL.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to jobtrack (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
