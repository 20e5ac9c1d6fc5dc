package main

import (
	"context"
	"errors"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/infra/config"
	"github.com/osa030/pobre/internal/infra/credentials"
	"github.com/osa030/pobre/internal/infra/github"
	"github.com/osa030/pobre/internal/tui"
)

func runCheckUpdate(cfg *config.Config) error {
	token := cfg.Update.Token
	if token == "" {
		saved, err := credentials.NewStore().Token()
		if err != nil {
			zlog.Debug().Msgf("keyring unavailable, checking anonymously: %v", err)
		}
		token = saved
	}

	client, err := github.New(github.Config{
		Repo:    cfg.Update.Repo,
		BaseURL: cfg.Update.APIBaseURL,
		Timeout: cfg.Update.Timeout(),
		Token:   token,
	})
	if err != nil {
		return err
	}

	fmt.Println(tui.BulletStyle.Render("┌") + tui.TextStyle.Render("Checking for updates..."))
	result, err := client.Check(context.Background(), version)
	switch {
	case errors.Is(err, github.ErrNetwork):
		fmt.Println(tui.BulletStyle.Render("└") + tui.ErrorStyle.Render(fmt.Sprintf("Could not connect to update server:\n%v", err)))
		return err
	case err != nil:
		fmt.Println(tui.BulletStyle.Render("└") + tui.ErrorStyle.Render("Could not check for updates. Please try again later."))
		return err
	}

	if result.UpdateAvailable {
		fmt.Println(tui.BulletStyle.Render("├") + tui.TitleStyle.Render("New version available: "+result.Latest))
		fmt.Println(tui.BulletStyle.Render("├") + tui.TextStyle.Render("Current version: "+result.Current))
		fmt.Println(tui.BulletStyle.Render("├") + tui.TextStyle.Render("Download from: "+result.URL))
		fmt.Println(tui.BulletStyle.Render("└") + tui.SuccessStyle.Render("Update available!"))
		return nil
	}

	fmt.Println(tui.BulletStyle.Render("└") + tui.SuccessStyle.Render(fmt.Sprintf("You are using the latest version (%s)", result.Current)))
	return nil
}
