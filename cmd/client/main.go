package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kivahq/kiva-waitlist/config"
	"github.com/kivahq/kiva-waitlist/internal/log"
	"github.com/kivahq/kiva-waitlist/pkg/localstate"
	"github.com/kivahq/kiva-waitlist/pkg/signup"
	"github.com/kivahq/kiva-waitlist/pkg/utils"
)

const requestTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	baseURL := utils.GetEnvTrimmedOrDefault("WAITLIST_API_URL", "http://localhost:8080")
	client := signup.NewClient(baseURL)

	switch args[0] {
	case "submit":
		runSubmit(client, args[1:])
		return

	case "list":
		runList(client)
		return

	case "export":
		runExport(client, args[1:])
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// openStateStore resolves the durable client-side state file. A nil store
// just disables user recall; it never blocks a submission.
func openStateStore() *localstate.Store {
	path := utils.GetEnvTrimmed("KIVA_STATE_FILE")
	if path == "" {
		defaultPath, err := localstate.DefaultPath()
		if err != nil {
			return nil
		}
		path = defaultPath
	}
	return localstate.Open(path)
}

// greet prints the one-time intro on a first visit and recalls the user
// when a previous submission is on record.
func greet(store *localstate.Store) {
	if store == nil {
		return
	}

	if _, visited, err := store.Get(localstate.KeyVisited); err == nil && !visited {
		fmt.Println("Welcome to Kiva! Join the waitlist to get early access when we launch.")
		_ = store.Set(localstate.KeyVisited, "true")
	}

	if email, ok, err := store.Get(localstate.KeyWaitlistEmail); err == nil && ok {
		fmt.Printf("Welcome back! %s is already on the waitlist.\n", email)
	}
}

func runSubmit(client *signup.Client, args []string) {
	flags := flag.NewFlagSet("submit", flag.ExitOnError)
	email := flags.String("email", "", "email address (required)")
	name := flags.String("name", "", "full name (required)")
	userType := flags.String("type", signup.DefaultUserType, "one of: buyer, seller, influencer")
	feedback := flags.String("feedback", "", "optional feedback")
	_ = flags.Parse(args)

	store := openStateStore()
	greet(store)

	// A nil *Store must stay a nil interface inside the form.
	var emailStore signup.EmailStore
	if store != nil {
		emailStore = store
	}

	form := signup.NewForm(client, emailStore)
	if err := form.SetFields(signup.Submission{
		Email:    *email,
		Name:     *name,
		UserType: *userType,
		Feedback: *feedback,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	outcome, err := form.Submit(ctx)
	if err != nil {
		reportSubmissionFailure(err)
		os.Exit(1)
	}

	fmt.Println("You've been added to our waitlist!")
	fmt.Printf("Entry ID: %s\n", outcome.ID)
}

func reportSubmissionFailure(err error) {
	submissionErr, ok := err.(*signup.SubmissionError)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	fmt.Fprintln(os.Stderr, submissionErr.Message)
	for _, fieldError := range submissionErr.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", fieldError.Field, fieldError.Message)
	}
}

func runList(client *signup.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	entries, err := client.ListEntries(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No waitlist entries yet.")
		return
	}

	for _, entry := range entries {
		fmt.Printf("%s  %-30s %-25s %-12s %s\n",
			entry.CreatedAt, entry.Email, entry.Name, entry.UserTypeLabel, entry.Feedback)
	}
	fmt.Printf("%d entries\n", len(entries))
}

func runExport(client *signup.Client, args []string) {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	output := flags.String("o", "", "output file (default waitlist-<date>.csv)")
	_ = flags.Parse(args)

	filename := *output
	if filename == "" {
		filename = fmt.Sprintf("waitlist-%s.csv", time.Now().UTC().Format("2006-01-02"))
	}

	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := client.ExportCSV(ctx, file); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = os.Remove(filename)
		os.Exit(1)
	}

	fmt.Printf("Exported waitlist to %s\n", filename)
}

func printUsage() {
	fmt.Println("Usage: client <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  submit   Join the waitlist (-email, -name, -type, -feedback)")
	fmt.Println("  list     Show all waitlist entries, newest first")
	fmt.Println("  export   Download the waitlist as CSV (-o file)")
	fmt.Println()
	fmt.Println("The API base URL is taken from WAITLIST_API_URL (default http://localhost:8080).")
}
