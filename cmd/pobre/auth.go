package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/osa030/pobre/internal/infra/credentials"
	"github.com/osa030/pobre/internal/tui"
)

func runSetToken(fromStdin bool) error {
	var token string
	if fromStdin || !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = line
	} else {
		fmt.Print(tui.BulletStyle.Render("├") + tui.TextStyle.Render("GitHub token: "))
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = string(b)
	}

	if err := credentials.NewStore().SetToken(token); err != nil {
		return err
	}
	fmt.Println(tui.BulletStyle.Render("└") + tui.SuccessStyle.Render("Token saved."))
	return nil
}

func runClearToken() error {
	if err := credentials.NewStore().ClearToken(); err != nil {
		return err
	}
	fmt.Println(tui.BulletStyle.Render("└") + tui.SuccessStyle.Render("Token removed."))
	return nil
}
