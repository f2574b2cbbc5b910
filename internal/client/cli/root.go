package cli

import (
	"bufio"
	"context"
	"os"
)

func (a *App) getStatus() string {
	if account := a.store.CurrentAccount(); account != nil {
		return account.DisplayName
	}
	return "signed out"
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to AccountKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
