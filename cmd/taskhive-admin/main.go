// ABOUTME: Operator CLI working directly against the taskhive database
// ABOUTME: Creates accounts, mints tokens, and lists users without the API

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// getConfigPath returns the path to the admin CLI config file.
// Priority: TASKHIVE_ADMIN_CONFIG env var > XDG_CONFIG_HOME/taskhive/admin.toml > ~/.config/taskhive/admin.toml
func getConfigPath() string {
	if envPath := os.Getenv("TASKHIVE_ADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "admin.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "taskhive", "admin.toml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: taskhive-admin <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  create-user --username NAME --email ADDR --password PW [--role ROLE]")
		fmt.Println("  mint-token --username NAME")
		fmt.Println("  list-users")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "create-user":
		err = runCreateUser(ctx)
	case "mint-token":
		err = runMintToken(ctx)
	case "list-users":
		err = runListUsers(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads "--flag value" and "--flag=value" pairs into a map.
// Only flag names present in allowed are accepted.
func parseFlags(args []string, allowed ...string) (map[string]string, error) {
	ok := func(name string) bool {
		for _, a := range allowed {
			if a == name {
				return true
			}
		}
		return false
	}

	flags := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !ok(name) {
			return nil, fmt.Errorf("unknown flag: --%s", name)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--%s requires a value", name)
			}
			value = args[i+1]
			i++
		}
		flags[name] = value
	}
	return flags, nil
}

func openStore() (*Config, *store.SQLiteStore, error) {
	cfg, err := Load(getConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, st, nil
}

func runCreateUser(ctx context.Context) error {
	flags, err := parseFlags(os.Args[2:], "username", "email", "password", "role")
	if err != nil {
		return err
	}
	if flags["username"] == "" || flags["email"] == "" || flags["password"] == "" {
		return fmt.Errorf("--username, --email, and --password are required")
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}
	authSvc := auth.NewService(st, verifier, cfg.Auth.TokenTTL, nil)

	user, err := authSvc.Register(ctx, flags["username"], flags["email"], flags["password"], flags["role"])
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Created user %s\n", user.Username)
	fmt.Printf("  ID:    %d\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role:  %s\n", user.Role)
	return nil
}

func runMintToken(ctx context.Context) error {
	flags, err := parseFlags(os.Args[2:], "username")
	if err != nil {
		return err
	}
	if flags["username"] == "" {
		return fmt.Errorf("--username is required")
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// The subject must exist; a token for a deleted account would resolve
	// to anonymous anyway.
	user, err := st.GetUserByUsername(ctx, flags["username"])
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	token, err := verifier.Generate(user.Username, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func runListUsers(ctx context.Context) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	users, err := st.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Email, u.Role, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
