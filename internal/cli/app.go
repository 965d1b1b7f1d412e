// Package cli implements the avocavo command-line tool on top of the SDK:
// login/logout, account inspection, and one-shot nutrition lookups.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/avocavo/nutrition-go/api"
	"github.com/avocavo/nutrition-go/auth"
	"github.com/avocavo/nutrition-go/internal/logging"
)

// App wires the auth manager and API client behind the CLI commands.
type App struct {
	prefs  Prefs
	auth   *auth.Manager
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

// NewApp builds the CLI around stdin/out and the given prefs.
func NewApp(prefs Prefs, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}
	opts := []auth.Option{auth.WithLogger(log)}
	if prefs.BaseURL != "" {
		opts = append(opts, auth.WithBaseURL(prefs.BaseURL))
	}
	mgr, err := auth.NewManager(opts...)
	if err != nil {
		return nil, err
	}
	return &App{
		prefs:  prefs,
		auth:   mgr,
		reader: bufio.NewReader(in),
		out:    out,
		log:    log,
	}, nil
}

func (a *App) client() (*api.Client, error) {
	opts := []api.Option{api.WithTimeout(time.Duration(a.prefs.TimeoutSeconds) * time.Second)}
	if a.prefs.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(a.prefs.BaseURL))
	}
	return api.NewClient("", opts...)
}

// Run dispatches a single command invocation.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx)
	case "logout":
		a.auth.Logout(ctx)
		fmt.Fprintln(a.out, "Successfully logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "ingredient":
		return a.ingredient(ctx, rest)
	case "recipe":
		return a.recipe(ctx, rest)
	case "batch":
		return a.batch(ctx, rest)
	case "usage":
		return a.accountUsage(ctx)
	case "keys":
		return a.keys(ctx, rest)
	case "verify":
		return a.verify(ctx, rest)
	case "health":
		return a.health(ctx)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: avocavo <command> [arguments]

Commands:
  login                        log in and store the API key
  logout                       remove the stored API key and session
  whoami                       show the logged-in user
  ingredient <text>            analyze a single ingredient
  recipe -servings N <ing>...  analyze a recipe
  batch <ingredient>...        analyze multiple ingredients at once
  usage                        show account plan and usage
  keys <list|create|delete|regenerate|usage> [args]
  verify <fdc-id>              look up a USDA reference food
  health                       probe the API without authentication`)
}

func (a *App) login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	result, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s plan)\n", result.Email, result.APITier)
	fmt.Fprintf(a.out, "API key: %s\n", result.MaskedKey)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	user := a.auth.CurrentUser(ctx)
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "Email:     %s\n", user.Email)
	fmt.Fprintf(a.out, "Plan:      %s\n", user.APITier)
	fmt.Fprintf(a.out, "API key:   %s\n", api.MaskKey(user.APIKey))
	if user.LoggedInAt != "" {
		fmt.Fprintf(a.out, "Logged in: %s\n", user.LoggedInAt)
	}
	return nil
}

func (a *App) ingredient(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ingredient <text>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	result, err := client.AnalyzeIngredient(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if a.prefs.Output == "json" {
		return a.printJSON(result)
	}
	if !result.Success {
		fmt.Fprintf(a.out, "%s: %s\n", result.Ingredient, result.Error)
		return nil
	}
	fmt.Fprintf(a.out, "%s\n", result.Ingredient)
	if result.USDAMatch != nil {
		fmt.Fprintf(a.out, "  USDA match: %s (FDC %d)\n", result.USDAMatch.Description, result.USDAMatch.FDCID)
	}
	if result.Nutrition != nil {
		a.printNutrition(*result.Nutrition, "  ")
	}
	return nil
}

func (a *App) recipe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recipe", flag.ContinueOnError)
	fs.SetOutput(a.out)
	servings := fs.Int("servings", 1, "number of servings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ingredients := fs.Args()
	if len(ingredients) == 0 {
		return fmt.Errorf("usage: recipe -servings N <ingredient>...")
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	result, err := client.AnalyzeRecipe(ctx, ingredients, *servings)
	if err != nil {
		return err
	}
	if a.prefs.Output == "json" {
		return a.printJSON(result)
	}
	if !result.Success || result.Nutrition == nil {
		fmt.Fprintf(a.out, "Recipe analysis failed: %s\n", result.Error)
		return nil
	}
	fmt.Fprintf(a.out, "Recipe (%d servings, %d USDA matches)\n", result.Recipe.Servings, result.USDAMatches)
	fmt.Fprintln(a.out, "Total:")
	a.printNutrition(result.Nutrition.Total, "  ")
	fmt.Fprintln(a.out, "Per serving:")
	a.printNutrition(result.Nutrition.PerServing, "  ")
	return nil
}

func (a *App) batch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: batch <ingredient>...")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	result, err := client.AnalyzeBatch(ctx, args)
	if err != nil {
		return err
	}
	if a.prefs.Output == "json" {
		return a.printJSON(result)
	}
	fmt.Fprintf(a.out, "Batch of %d, %d matched\n", result.BatchSize, result.SuccessfulMatches)
	for _, item := range result.Results {
		if item.Success && item.Nutrition != nil {
			fmt.Fprintf(a.out, "  %s: %.0f cal\n", item.Ingredient, item.Nutrition.Calories)
		} else {
			fmt.Fprintf(a.out, "  %s: %s\n", item.Ingredient, item.Error)
		}
	}
	return nil
}

func (a *App) accountUsage(ctx context.Context) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	account, err := client.AccountUsage(ctx)
	if err != nil {
		return err
	}
	if a.prefs.Output == "json" {
		return a.printJSON(account)
	}
	fmt.Fprintf(a.out, "Plan:   %s (%s)\n", account.APITier, account.SubscriptionStatus)
	limit := "unlimited"
	if account.Usage.MonthlyLimit != nil {
		limit = strconv.Itoa(*account.Usage.MonthlyLimit)
	}
	fmt.Fprintf(a.out, "Usage:  %d/%s (%.1f%%)\n", account.Usage.CurrentMonth, limit, account.Usage.PercentageUsed)
	fmt.Fprintf(a.out, "Resets: %s (%d days)\n", account.Usage.ResetDate, account.Usage.DaysUntilReset)
	return nil
}

func (a *App) keys(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: keys <list|create|delete|regenerate|usage> [args]")
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		out, err := client.ListAPIKeys(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(out)
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: keys create <name>")
		}
		out, err := client.CreateAPIKey(ctx, strings.Join(args[1:], " "), "", "")
		if err != nil {
			return err
		}
		return a.printJSON(out)
	case "delete":
		id, err := keyID(args[1:])
		if err != nil {
			return err
		}
		out, err := client.DeleteAPIKey(ctx, id)
		if err != nil {
			return err
		}
		return a.printJSON(out)
	case "regenerate":
		id, err := keyID(args[1:])
		if err != nil {
			return err
		}
		out, err := client.RegenerateAPIKey(ctx, id)
		if err != nil {
			return err
		}
		return a.printJSON(out)
	case "usage":
		out, err := client.UsageSummary(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(out)
	default:
		return fmt.Errorf("unknown keys action: %s", args[0])
	}
}

func keyID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("key id required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid key id %q", args[0])
	}
	return id, nil
}

func (a *App) verify(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: verify <fdc-id>")
	}
	fdcID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid FDC id %q", args[0])
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	out, err := client.VerifyFDCID(ctx, fdcID)
	if err != nil {
		return err
	}
	return a.printJSON(out)
}

func (a *App) health(ctx context.Context) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	out, err := client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(out)
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printNutrition(n api.Nutrition, indent string) {
	fmt.Fprintf(a.out, "%sCalories: %.1f  Protein: %.1fg  Fat: %.1fg  Carbs: %.1fg\n",
		indent, n.Calories, n.Protein, n.TotalFat, n.Carbohydrates)
	fmt.Fprintf(a.out, "%sFiber: %.1fg  Sugar: %.1fg  Sodium: %.1fmg\n",
		indent, n.Fiber, n.Sugar, n.Sodium)
}
