package cli

import (
	"context"
	"fmt"
)

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	name := fs.StringP("name", "n", "", "display name")
	email := fs.StringP("email", "e", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *name == "" {
		if *name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	user, token, err := a.api.Register(ctx, *name, *email, password)
	if err != nil {
		return explain(err)
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.StringP("email", "e", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	user, token, err := a.api.Login(ctx, *email, password)
	if err != nil {
		return explain(err)
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	if err := a.authorize(); err != nil {
		return err
	}

	user, err := a.api.Me(ctx)
	if err != nil {
		return explain(err)
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}
