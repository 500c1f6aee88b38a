// Package prompt asks the user questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/manifoldco/promptui"
)

// Terminal implements interactive prompts with promptui.
type Terminal struct{}

// Confirm asks a yes/no question. Aborted prompts count as "no".
func (Terminal) Confirm(message string) bool {
	p := promptui.Select{
		Label: message,
		Items: []string{"yes", "no"},
	}

	sel, _, err := p.Run()
	if err != nil {
		if !errors.Is(err, promptui.ErrInterrupt) && !errors.Is(err, promptui.ErrEOF) {
			slog.Warn("confirmation prompt failed", "err", err)
		}
		return false
	}
	return sel == 0
}

// Credentials asks for an email address and a password.
func (Terminal) Credentials(defaultEmail string) (email, password string, err error) {
	ep := promptui.Prompt{
		Label:     "email",
		Default:   defaultEmail,
		AllowEdit: true,
		Validate:  ValidateEmail,
	}
	email, err = ep.Run()
	if err != nil {
		return "", "", err
	}

	pp := promptui.Prompt{
		Label:    "password",
		Mask:     '*',
		Validate: ValidatePassword,
	}
	password, err = pp.Run()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), password, nil
}

func ValidateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

func ValidatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
