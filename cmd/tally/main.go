package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tally/internal/auth"
	"tally/internal/cli"
	"tally/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	st := cli.InitStore(logger, cfg)
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	events := cli.InitEvents(logger, cfg)
	if events != nil {
		defer events.Close()
	}

	ctx := context.Background()
	users, err := st.Load(ctx)
	if err != nil {
		logger.Error("Failed to load ledger store", "error", err)
		os.Exit(1)
	}
	logger.Info("Ledger store loaded",
		"backend", cfg.StoreBackend, "path", cfg.StorePath, "users", len(users))

	var regEvents auth.EventPublisher
	if events != nil {
		regEvents = events
	}
	authSvc := auth.NewService(st, cli.InitVerifier(cfg), regEvents)
	ledgerSvc := services.NewLedgerService(users, st, events)

	in := bufio.NewReader(os.Stdin)
	out := os.Stdout

	fmt.Fprintln(out, "=== tally ===")
	for {
		sess, quit := authLoop(ctx, in, out, authSvc, ledgerSvc)
		if quit {
			fmt.Fprintln(out, "Goodbye.")
			return
		}
		sessionLoop(ctx, in, out, ledgerSvc, sess)
	}
}

// authLoop runs the register/login menu until a session is established
// or the user exits.
func authLoop(ctx context.Context, in *bufio.Reader, out io.Writer, authSvc *auth.Service, ledgerSvc *services.LedgerService) (*auth.Session, bool) {
	for {
		fmt.Fprintln(out, "\n1) Register\n2) Login\n3) Exit")
		fmt.Fprint(out, "Choice: ")
		choice := readLine(in)

		switch choice {
		case "1":
			fmt.Fprint(out, "Username: ")
			username := readLine(in)
			fmt.Fprint(out, "Password: ")
			password := readLine(in)
			if _, err := authSvc.Register(ctx, ledgerSvc.Users(), username, password); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "Registered. You can now login.")
		case "2":
			fmt.Fprint(out, "Username: ")
			username := readLine(in)
			fmt.Fprint(out, "Password: ")
			password := readLine(in)
			sess, err := authSvc.Login(ctx, ledgerSvc.Users(), username, password)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Login successful. Welcome %s!\n", sess.User.Username)
			return sess, false
		case "3":
			return nil, true
		default:
			fmt.Fprintln(out, "Invalid choice.")
		}
	}
}

// sessionLoop dispatches menu choices through the command table until
// the user logs out.
func sessionLoop(ctx context.Context, in *bufio.Reader, out io.Writer, ledgerSvc *services.LedgerService, sess *auth.Session) {
	table := cli.Commands()
	order := cli.MenuOrder(table)
	env := &cli.Env{In: in, Out: out, Ledger: ledgerSvc, Session: sess}

	for {
		fmt.Fprintf(out, "\n--- Menu (%s) ---\n", sess.User.Username)
		for _, key := range order {
			fmt.Fprintf(out, "%s) %s\n", key, table[key].Name)
		}
		fmt.Fprint(out, "Choice: ")
		choice := readLine(in)

		cmd, ok := table[choice]
		if !ok {
			fmt.Fprintln(out, "Invalid choice.")
			continue
		}
		if err := cmd.Run(ctx, env); err != nil {
			if errors.Is(err, cli.ErrLogout) {
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
