package main

import (
	"context"
	"os"

	"github.com/agbru/montyhall/internal/app"
	apperrors "github.com/agbru/montyhall/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.HandleRunError(err, os.Stderr, noColors{}))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}

// noColors is used before the theme is initialised.
type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }
