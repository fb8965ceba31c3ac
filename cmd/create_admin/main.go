package main

import (
	"adbridge/internal/app/deps"
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type adminInput struct {
	Email    c.Email
	Name     string
	Password account.RawPassword
}

func main() {
	email := flag.String("email", "", "admin e-mail address")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	fmt.Print("Password: ")
	input, err := readInput(*email, *name, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), input); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func readInput(email string, name string, stdin io.Reader) (input adminInput, err error) {
	err = validation.Validate(
		strings.TrimSpace(email),
		validation.Required,
		is.Email,
		validation.Length(0, 512),
	)
	if err != nil {
		return input, fmt.Errorf("-email: %w", err)
	}
	if err := validation.Validate(name, validation.Length(0, 256)); err != nil {
		return input, fmt.Errorf("-name: %w", err)
	}

	password, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return input, err
	}
	rawPassword := account.RawPassword(strings.TrimRight(password, "\r\n"))
	if err := account.ValidateNewPassword(rawPassword); err != nil {
		return input, err
	}

	return adminInput{Email: c.NewEmail(email), Name: name, Password: rawPassword}, nil
}

func run(ctx context.Context, input adminInput) error {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	hash, err := deps.PasswordHasher.HashPassword(input.Password)
	if err != nil {
		return err
	}

	a, err := deps.AccountRepository.Create(ctx, account.CreateAccountInput{
		ID:           deps.IdentityGenerator.GenerateID(),
		Email:        input.Email,
		Name:         input.Name,
		Role:         account.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    deps.Now(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Admin account %s has been created.\n", a.ID)
	return nil
}
